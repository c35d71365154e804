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

package testlib

import (
	"fmt"
	"strings"

	"naive.systems/fwcheck/firmware/checker_integration/cppcheck"
)

// Builder assembles a cppcheck configuration the way cppcheck would dump a
// small C file, so tests can describe translation units as code.
type Builder struct {
	cfg     *cppcheck.Configuration
	file    string
	line    int
	oneLine bool
	global  cppcheck.Ref
}

func NewBuilder(file string) *Builder {
	b := &Builder{cfg: &cppcheck.Configuration{}, file: file, line: 1}
	b.global = b.scope(cppcheck.ScopeGlobal, "", cppcheck.NoRef)
	return b
}

// Build returns the configuration. The builder must not be used afterwards.
func (b *Builder) Build() *cppcheck.Configuration {
	return b.cfg
}

// Dump wraps the configuration in a dump whose source file is the first
// file the builder wrote to.
func (b *Builder) Dump(path string) *cppcheck.Dump {
	source := ""
	if len(b.cfg.Tokens) > 0 {
		source = b.cfg.Tokens[0].File
	}
	return &cppcheck.Dump{Path: path, SourceFile: source, Configurations: []*cppcheck.Configuration{b.cfg}}
}

// SetFile switches the file of the following tokens, as after an #include.
func (b *Builder) SetFile(file string) {
	b.file = file
	b.line = 1
}

func (b *Builder) Newline() {
	if b.oneLine {
		return
	}
	b.line++
}

func (b *Builder) Directive(str string) {
	b.cfg.Directives = append(b.cfg.Directives, cppcheck.Directive{File: b.file, Line: b.line, Str: str})
	b.line++
}

func (b *Builder) scope(kind, className string, nestedIn cppcheck.Ref) cppcheck.Ref {
	ref := cppcheck.Ref(len(b.cfg.Scopes))
	b.cfg.Scopes = append(b.cfg.Scopes, cppcheck.Scope{
		Id:        fmt.Sprintf("s%d", ref),
		Type:      kind,
		ClassName: className,
		NestedIn:  nestedIn,
		Function:  cppcheck.NoRef,
		BodyStart: cppcheck.NoRef,
		BodyEnd:   cppcheck.NoRef,
	})
	return ref
}

// Token appends a token in scope and links it into the token sequence.
func (b *Builder) Token(str string, scope cppcheck.Ref) cppcheck.Ref {
	ref := cppcheck.Ref(len(b.cfg.Tokens))
	tok := cppcheck.Token{
		Id:          fmt.Sprintf("t%d", ref),
		File:        b.file,
		Line:        b.line,
		Column:      1,
		Str:         str,
		Scope:       scope,
		Variable:    cppcheck.NoRef,
		Function:    cppcheck.NoRef,
		AstParent:   cppcheck.NoRef,
		AstOperand1: cppcheck.NoRef,
		AstOperand2: cppcheck.NoRef,
		Previous:    cppcheck.NoRef,
		Next:        cppcheck.NoRef,
		Link:        cppcheck.NoRef,
	}
	if isIdentifier(str) {
		tok.IsName = true
		tok.Type = "name"
	}
	if ref > 0 {
		tok.Previous = ref - 1
		b.cfg.Tokens[ref-1].Next = ref
		tok.Column = b.cfg.Tokens[ref-1].Column + len(b.cfg.Tokens[ref-1].Str) + 1
		if b.cfg.Tokens[ref-1].Line != b.line {
			tok.Column = 1
		}
	}
	b.cfg.Tokens = append(b.cfg.Tokens, tok)
	return ref
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9') {
			continue
		}
		return false
	}
	return true
}

func (b *Builder) op(str string, scope cppcheck.Ref) cppcheck.Ref {
	ref := b.Token(str, scope)
	b.cfg.Tokens[ref].IsOp = true
	b.cfg.Tokens[ref].Type = "op"
	return ref
}

func (b *Builder) link(parent, operand1, operand2 cppcheck.Ref) {
	p := &b.cfg.Tokens[parent]
	p.AstOperand1 = operand1
	p.AstOperand2 = operand2
	if operand1.Valid() {
		b.cfg.Tokens[operand1].AstParent = parent
	}
	if operand2.Valid() {
		b.cfg.Tokens[operand2].AstParent = parent
	}
}

type VarAttr func(*cppcheck.Variable)

var (
	Volatile VarAttr = func(v *cppcheck.Variable) { v.IsVolatile = true }
	Const    VarAttr = func(v *cppcheck.Variable) { v.IsConst = true }
	Static   VarAttr = func(v *cppcheck.Variable) { v.IsStatic = true }
	Array    VarAttr = func(v *cppcheck.Variable) { v.IsArray = true }
)

func (b *Builder) variable(typeName, name string, scope cppcheck.Ref, class string, attrs []VarAttr) cppcheck.Ref {
	ref := cppcheck.Ref(len(b.cfg.Variables))
	v := cppcheck.Variable{
		Id:         fmt.Sprintf("v%d", ref),
		Name:       name,
		TypeName:   typeName,
		Scope:      scope,
		IsGlobal:   class == "Global",
		IsLocal:    class == "Local",
		IsArgument: class == "Argument",
	}
	for _, attr := range attrs {
		attr(&v)
	}
	if v.IsVolatile {
		b.Token("volatile", scope)
	}
	v.TypeStartToken = b.Token(typeName, scope)
	v.NameToken = b.Token(name, scope)
	b.cfg.Tokens[v.NameToken].Variable = ref
	b.cfg.Variables = append(b.cfg.Variables, v)
	return ref
}

// Global declares `typeName name;` at file scope.
func (b *Builder) Global(typeName, name string, attrs ...VarAttr) cppcheck.Ref {
	ref := b.variable(typeName, name, b.global, "Global", attrs)
	b.Token(";", b.global)
	b.Newline()
	return ref
}

// GlobalInit declares `typeName name = 0;` at file scope.
func (b *Builder) GlobalInit(typeName, name string, attrs ...VarAttr) cppcheck.Ref {
	ref := b.variable(typeName, name, b.global, "Global", attrs)
	nameTok := b.cfg.Variables[ref].NameToken
	assign := b.op("=", b.global)
	b.cfg.Tokens[assign].IsAssignmentOp = true
	value := b.Token("0", b.global)
	b.link(assign, nameTok, value)
	b.Token(";", b.global)
	b.Newline()
	return ref
}

func (b *Builder) function(name string) cppcheck.Ref {
	if refs := b.cfg.FunctionsByName(name); len(refs) > 0 {
		return refs[0]
	}
	ref := cppcheck.Ref(len(b.cfg.Functions))
	b.cfg.Functions = append(b.cfg.Functions, cppcheck.Function{
		Id:       fmt.Sprintf("f%d", ref),
		Name:     name,
		Token:    cppcheck.NoRef,
		TokenDef: cppcheck.NoRef,
		Scope:    cppcheck.NoRef,
	})
	return ref
}

// Declare adds a function known to the dump without emitting tokens, so
// calls to it can be resolved before it is defined.
func (b *Builder) Declare(name string) cppcheck.Ref {
	return b.function(name)
}

// Prototype emits `void name(void);`.
func (b *Builder) Prototype(name string) cppcheck.Ref {
	fn := b.function(name)
	b.Token("void", b.global)
	nameTok := b.Token(name, b.global)
	b.cfg.Tokens[nameTok].Function = fn
	b.cfg.Functions[fn].TokenDef = nameTok
	open := b.Token("(", b.global)
	b.Token("void", b.global)
	closing := b.Token(")", b.global)
	b.cfg.Tokens[open].Link = closing
	b.cfg.Tokens[closing].Link = open
	b.Token(";", b.global)
	b.Newline()
	return fn
}

// Function emits `void name(void) { ... }` and returns the function.
func (b *Builder) Function(name string, body func(*Body)) cppcheck.Ref {
	fn := b.function(name)
	b.Token("void", b.global)
	nameTok := b.Token(name, b.global)
	b.cfg.Tokens[nameTok].Function = fn
	open := b.Token("(", b.global)
	closing := b.Token(")", b.global)
	b.cfg.Tokens[open].Link = closing
	b.cfg.Tokens[closing].Link = open

	scope := b.scope(cppcheck.ScopeFunction, name, b.global)
	b.cfg.Scopes[scope].Function = fn
	f := &b.cfg.Functions[fn]
	f.Token = nameTok
	if !f.TokenDef.Valid() {
		f.TokenDef = nameTok
	}
	f.Scope = scope

	start := b.Token("{", scope)
	b.cfg.Scopes[scope].BodyStart = start
	b.Newline()
	if body != nil {
		body(&Body{b: b, scope: scope})
	}
	end := b.Token("}", scope)
	b.cfg.Scopes[scope].BodyEnd = end
	b.cfg.Tokens[start].Link = end
	b.cfg.Tokens[end].Link = start
	b.Newline()
	return fn
}

// Body emits statements into one block scope.
type Body struct {
	b     *Builder
	scope cppcheck.Ref
}

func (f *Body) Scope() cppcheck.Ref {
	return f.scope
}

func (f *Body) end() {
	f.b.Token(";", f.scope)
	f.b.Newline()
}

func (f *Body) Local(typeName, name string, attrs ...VarAttr) cppcheck.Ref {
	ref := f.b.variable(typeName, name, f.scope, "Local", attrs)
	f.end()
	return ref
}

func (f *Body) use(v cppcheck.Ref) cppcheck.Ref {
	tok := f.b.Token(f.b.cfg.Variables[v].Name, f.scope)
	f.b.cfg.Tokens[tok].Variable = v
	return tok
}

// Assign emits `name = 1;`.
func (f *Body) Assign(v cppcheck.Ref) {
	lhs := f.use(v)
	assign := f.b.op("=", f.scope)
	f.b.cfg.Tokens[assign].IsAssignmentOp = true
	value := f.b.Token("1", f.scope)
	f.b.link(assign, lhs, value)
	f.end()
}

// AssignIndex emits `name[0] = 1;`.
func (f *Body) AssignIndex(v cppcheck.Ref) {
	base := f.use(v)
	sub := f.b.op("[", f.scope)
	idx := f.b.Token("0", f.scope)
	closing := f.b.Token("]", f.scope)
	f.b.cfg.Tokens[sub].Link = closing
	f.b.cfg.Tokens[closing].Link = sub
	f.b.link(sub, base, idx)
	assign := f.b.op("=", f.scope)
	f.b.cfg.Tokens[assign].IsAssignmentOp = true
	value := f.b.Token("1", f.scope)
	f.b.link(assign, sub, value)
	f.end()
}

// AssignDeref emits `*name = 1;`, whose target carries no variable.
func (f *Body) AssignDeref(v cppcheck.Ref) {
	star := f.b.op("*", f.scope)
	ptr := f.use(v)
	f.b.link(star, ptr, cppcheck.NoRef)
	assign := f.b.op("=", f.scope)
	f.b.cfg.Tokens[assign].IsAssignmentOp = true
	value := f.b.Token("1", f.scope)
	f.b.link(assign, star, value)
	f.end()
}

// Increment emits `name++;`.
func (f *Body) Increment(v cppcheck.Ref) {
	operand := f.use(v)
	inc := f.b.op("++", f.scope)
	f.b.link(inc, operand, cppcheck.NoRef)
	f.end()
}

// Call emits `name(args...);`. An argument naming a known function is
// linked to it; a leading "&" takes its address.
func (f *Body) Call(name string, args ...string) cppcheck.Ref {
	callee := f.b.Token(name, f.scope)
	if refs := f.b.cfg.FunctionsByName(name); len(refs) == 1 {
		f.b.cfg.Tokens[callee].Function = refs[0]
	}
	paren := f.b.Token("(", f.scope)
	top := cppcheck.NoRef
	for i, arg := range args {
		if i > 0 {
			comma := f.b.Token(",", f.scope)
			f.b.cfg.Tokens[comma].AstOperand1 = top
			f.b.cfg.Tokens[top].AstParent = comma
			top = comma
		}
		argTok := f.argument(arg)
		if top.Valid() {
			f.b.cfg.Tokens[top].AstOperand2 = argTok
			f.b.cfg.Tokens[argTok].AstParent = top
		} else {
			top = argTok
		}
	}
	closing := f.b.Token(")", f.scope)
	f.b.cfg.Tokens[paren].Link = closing
	f.b.cfg.Tokens[closing].Link = paren
	f.b.link(paren, callee, top)
	f.end()
	return paren
}

func (f *Body) argument(arg string) cppcheck.Ref {
	if strings.HasPrefix(arg, "&") {
		amp := f.b.op("&", f.scope)
		operand := f.argument(strings.TrimPrefix(arg, "&"))
		f.b.link(amp, operand, cppcheck.NoRef)
		return amp
	}
	tok := f.b.Token(arg, f.scope)
	if refs := f.b.cfg.FunctionsByName(arg); len(refs) == 1 {
		f.b.cfg.Tokens[tok].Function = refs[0]
	}
	for i := range f.b.cfg.Variables {
		if f.b.cfg.Variables[i].Name == arg {
			f.b.cfg.Tokens[tok].Variable = cppcheck.Ref(i)
		}
	}
	return tok
}

// Loop emits a while, for or do loop whose body is a nested block scope.
func (f *Body) Loop(keyword string, body func(*Body)) {
	kind := map[string]string{"while": "While", "for": "For", "do": "Do"}[keyword]
	f.b.Token(keyword, f.scope)
	if keyword != "do" {
		f.b.Token("(", f.scope)
		f.b.Token("1", f.scope)
		f.b.Token(")", f.scope)
	}
	inner := f.b.scope(kind, "", f.scope)
	f.block(inner, body)
	if keyword == "do" {
		f.b.Token("while", f.scope)
		f.b.Token("(", f.scope)
		f.b.Token("1", f.scope)
		f.b.Token(")", f.scope)
		f.b.Token(";", f.scope)
	}
	f.b.Newline()
}

// If emits `if (1) { ... }`.
func (f *Body) If(body func(*Body)) {
	f.b.Token("if", f.scope)
	f.b.Token("(", f.scope)
	f.b.Token("1", f.scope)
	f.b.Token(")", f.scope)
	inner := f.b.scope("If", "", f.scope)
	f.block(inner, body)
	f.b.Newline()
}

func (f *Body) block(scope cppcheck.Ref, body func(*Body)) {
	start := f.b.Token("{", scope)
	f.b.cfg.Scopes[scope].BodyStart = start
	f.b.Newline()
	if body != nil {
		body(&Body{b: f.b, scope: scope})
	}
	end := f.b.Token("}", scope)
	f.b.cfg.Scopes[scope].BodyEnd = end
	f.b.cfg.Tokens[start].Link = end
	f.b.cfg.Tokens[end].Link = start
}

// OneLine emits the statements of body on a single line, as in
// `delay_ms(1); delay_ms(2);`.
func (f *Body) OneLine(body func(*Body)) {
	f.b.oneLine = true
	body(f)
	f.b.oneLine = false
	f.b.Newline()
}

// Return emits `return;`.
func (f *Body) Return() {
	f.b.Token("return", f.scope)
	f.end()
}
