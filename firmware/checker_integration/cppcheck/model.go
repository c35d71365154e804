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

package cppcheck

// Ref is an index into one of the entity slices owned by a Configuration.
// References never cross configurations.
type Ref int32

const NoRef Ref = -1

func (r Ref) Valid() bool {
	return r >= 0
}

const (
	ScopeGlobal   = "Global"
	ScopeFunction = "Function"
)

type Token struct {
	Id             string
	File           string
	Line           int
	Column         int
	Str            string
	Type           string
	IsOp           bool
	IsAssignmentOp bool
	IsName         bool
	Scope          Ref
	Variable       Ref
	Function       Ref
	AstParent      Ref
	AstOperand1    Ref
	AstOperand2    Ref
	Previous       Ref
	Next           Ref
	Link           Ref
}

type Variable struct {
	Id             string
	Name           string
	NameToken      Ref
	TypeStartToken Ref
	// TypeName is the text of the type start token, e.g. "int" or
	// "SemaphoreHandle_t".
	TypeName   string
	Scope      Ref
	IsGlobal   bool
	IsLocal    bool
	IsArgument bool
	IsConst    bool
	IsVolatile bool
	IsStatic   bool
	IsPointer  bool
	IsArray    bool
}

type Scope struct {
	Id        string
	Type      string
	ClassName string
	NestedIn  Ref
	Function  Ref
	BodyStart Ref
	BodyEnd   Ref
}

type Function struct {
	Id       string
	Name     string
	Token    Ref
	TokenDef Ref
	// Scope is the top level scope of the function body, NoRef for
	// functions that are only declared.
	Scope Ref
}

type Directive struct {
	File string
	Line int
	Str  string
}

// Configuration is the source model of one preprocessor configuration of a
// translation unit. It is immutable once loaded.
type Configuration struct {
	Name       string
	Tokens     []Token
	Variables  []Variable
	Scopes     []Scope
	Functions  []Function
	Directives []Directive
}

type Dump struct {
	Path           string
	SourceFile     string
	Configurations []*Configuration
}

func (c *Configuration) Token(r Ref) *Token {
	if r < 0 || int(r) >= len(c.Tokens) {
		return nil
	}
	return &c.Tokens[r]
}

func (c *Configuration) Variable(r Ref) *Variable {
	if r < 0 || int(r) >= len(c.Variables) {
		return nil
	}
	return &c.Variables[r]
}

func (c *Configuration) Scope(r Ref) *Scope {
	if r < 0 || int(r) >= len(c.Scopes) {
		return nil
	}
	return &c.Scopes[r]
}

func (c *Configuration) Function(r Ref) *Function {
	if r < 0 || int(r) >= len(c.Functions) {
		return nil
	}
	return &c.Functions[r]
}

// TokenStr returns the text of the token, or "" for NoRef.
func (c *Configuration) TokenStr(r Ref) string {
	if t := c.Token(r); t != nil {
		return t.Str
	}
	return ""
}

// FunctionsByName returns all functions with the given name in model order.
func (c *Configuration) FunctionsByName(name string) []Ref {
	refs := []Ref{}
	for i := range c.Functions {
		if c.Functions[i].Name == name {
			refs = append(refs, Ref(i))
		}
	}
	return refs
}
