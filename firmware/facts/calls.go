/*
NaiveSystems Analyze - A tool for static code analysis
Copyright (C) 2023  Naive Systems Ltd.

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package facts

import (
	"naive.systems/fwcheck/firmware/checker_integration/cppcheck"
)

var keywords = map[string]bool{
	"if": true, "while": true, "for": true, "switch": true, "return": true,
	"sizeof": true, "do": true, "else": true, "case": true, "_Alignof": true,
	"_Generic": true, "_Static_assert": true, "defined": true,
}

// RegistrationAPI names a function that receives a callback. Arg is the
// position of the callback argument; negative positions count from the
// end, so -1 is the last argument.
type RegistrationAPI struct {
	Name string `yaml:"name"`
	Arg  int    `yaml:"arg"`
}

// UnmarshalYAML accepts either a bare name or a {name, arg} mapping. Arg
// defaults to the last argument.
func (api *RegistrationAPI) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err == nil {
		*api = RegistrationAPI{Name: name, Arg: -1}
		return nil
	}
	type plain RegistrationAPI
	p := plain{Arg: -1}
	if err := unmarshal(&p); err != nil {
		return err
	}
	*api = RegistrationAPI(p)
	return nil
}

// IsFunctionCall reports whether tok is the opening parenthesis of a call
// expression, i.e. its first operand is the name right before it.
func IsFunctionCall(cfg *cppcheck.Configuration, tok cppcheck.Ref) bool {
	t := cfg.Token(tok)
	if t == nil || t.Str != "(" || !t.AstOperand1.Valid() || t.AstOperand1 != t.Previous {
		return false
	}
	callee := cfg.Token(t.AstOperand1)
	return callee.IsName && !keywords[callee.Str]
}

// CallName is the callee name of a call expression opened by paren.
func CallName(cfg *cppcheck.Configuration, paren cppcheck.Ref) string {
	return cfg.TokenStr(cfg.Token(paren).AstOperand1)
}

// IsCallToken reports whether tok is a name immediately followed by "(",
// which is how a call site looks in the token stream. Keywords never are.
func IsCallToken(cfg *cppcheck.Configuration, tok cppcheck.Ref) bool {
	t := cfg.Token(tok)
	if t == nil || !t.IsName || keywords[t.Str] {
		return false
	}
	return cfg.TokenStr(t.Next) == "("
}

// IsDirectCall reports whether tok calls a function defined in the dump.
func IsDirectCall(cfg *cppcheck.Configuration, tok cppcheck.Ref) bool {
	return IsCallToken(cfg, tok) && cfg.Token(tok).Function.Valid()
}

// CallArguments flattens the comma tree of a call's argument list.
func CallArguments(cfg *cppcheck.Configuration, paren cppcheck.Ref) []cppcheck.Ref {
	t := cfg.Token(paren)
	if t == nil {
		return nil
	}
	args := []cppcheck.Ref{}
	var flatten func(r cppcheck.Ref, depth int)
	flatten = func(r cppcheck.Ref, depth int) {
		a := cfg.Token(r)
		if a == nil || depth > len(cfg.Tokens) {
			return
		}
		if a.Str == "," {
			flatten(a.AstOperand1, depth+1)
			flatten(a.AstOperand2, depth+1)
			return
		}
		args = append(args, r)
	}
	flatten(t.AstOperand2, 0)
	return args
}

func argumentAt(args []cppcheck.Ref, pos int) cppcheck.Ref {
	if pos < 0 {
		pos += len(args)
	}
	if pos < 0 || pos >= len(args) {
		return cppcheck.NoRef
	}
	return args[pos]
}

// unwrapAddressOf returns the operand of a unary "&".
func unwrapAddressOf(cfg *cppcheck.Configuration, arg cppcheck.Ref) cppcheck.Ref {
	t := cfg.Token(arg)
	if t != nil && t.Str == "&" && t.AstOperand1.Valid() && !t.AstOperand2.Valid() {
		return t.AstOperand1
	}
	return arg
}

// ResolveCallback maps an argument token to the function it names: the
// token's own function reference, else the only function with that name.
func ResolveCallback(cfg *cppcheck.Configuration, arg cppcheck.Ref) cppcheck.Ref {
	t := cfg.Token(unwrapAddressOf(cfg, arg))
	if t == nil {
		return cppcheck.NoRef
	}
	if t.Function.Valid() {
		return t.Function
	}
	if !t.IsName {
		return cppcheck.NoRef
	}
	if candidates := cfg.FunctionsByName(t.Str); len(candidates) == 1 {
		return candidates[0]
	}
	return cppcheck.NoRef
}
