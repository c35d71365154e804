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
	"errors"

	"github.com/golang/glog"
	"naive.systems/fwcheck/firmware/checker_integration/cppcheck"
)

// Assignment records one write to a variable inside a function body.
type Assignment struct {
	Function     cppcheck.Ref
	FunctionName string
	Variable     cppcheck.Ref
	Token        cppcheck.Ref
	File         string
	Line         int
}

// isAssignment also accepts increment and decrement, which cppcheck does
// not flag as assignment operators.
func isAssignment(tok *cppcheck.Token) bool {
	if tok.IsAssignmentOp {
		return true
	}
	return tok.IsOp && (tok.Str == "++" || tok.Str == "--")
}

// assignedVariable resolves the written variable. Subscripts are followed
// down to the array base; anything else must carry a variable directly.
func assignedVariable(cfg *cppcheck.Configuration, tok *cppcheck.Token) cppcheck.Ref {
	lhs := cfg.Token(tok.AstOperand1)
	if lhs == nil {
		return cppcheck.NoRef
	}
	if lhs.Str != "[" {
		return lhs.Variable
	}
	t := lhs
	for steps := 0; t != nil && steps < len(cfg.Tokens); steps++ {
		if t.Variable.Valid() {
			return t.Variable
		}
		t = cfg.Token(t.AstOperand1)
	}
	return cppcheck.NoRef
}

// Assignments lists every assignment inside a function body in token order.
// Targets that do not resolve to a variable are skipped.
func Assignments(cfg *cppcheck.Configuration, r *Resolver) []Assignment {
	assignments := []Assignment{}
	for i := range cfg.Tokens {
		tok := &cfg.Tokens[i]
		if !isAssignment(tok) {
			continue
		}
		if sc := cfg.Scope(tok.Scope); sc != nil && sc.Type == cppcheck.ScopeGlobal {
			continue
		}
		variable := assignedVariable(cfg, tok)
		if !variable.Valid() {
			continue
		}
		fn, err := r.Function(cppcheck.Ref(i))
		if err != nil {
			if !errors.Is(err, ErrGlobalScope) {
				glog.Warningf("skip assignment: %v", err)
			}
			continue
		}
		assignments = append(assignments, Assignment{
			Function:     fn,
			FunctionName: cfg.Function(fn).Name,
			Variable:     variable,
			Token:        cppcheck.Ref(i),
			File:         tok.File,
			Line:         tok.Line,
		})
	}
	return assignments
}

func GlobalAssignments(cfg *cppcheck.Configuration, assignments []Assignment) []Assignment {
	globals := []Assignment{}
	for _, a := range assignments {
		if v := cfg.Variable(a.Variable); v != nil && v.IsGlobal {
			globals = append(globals, a)
		}
	}
	return globals
}
