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

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/glog"
)

type CppCheckXMLRawFile struct {
	Index int    `xml:"index,attr"`
	Name  string `xml:"name,attr"`
}

type CppCheckXMLDirective struct {
	File   string `xml:"file,attr"`
	Linenr int    `xml:"linenr,attr"`
	Str    string `xml:"str,attr"`
}

type CppCheckXMLToken struct {
	Id             string `xml:"id,attr"`
	File           string `xml:"file,attr"`
	FileIndex      string `xml:"fileIndex,attr"`
	Linenr         int    `xml:"linenr,attr"`
	Column         int    `xml:"column,attr"`
	Str            string `xml:"str,attr"`
	Scope          string `xml:"scope,attr"`
	Type           string `xml:"type,attr"`
	IsAssignmentOp string `xml:"isAssignmentOp,attr"`
	Variable       string `xml:"variable,attr"`
	Function       string `xml:"function,attr"`
	AstParent      string `xml:"astParent,attr"`
	AstOperand1    string `xml:"astOperand1,attr"`
	AstOperand2    string `xml:"astOperand2,attr"`
	Link           string `xml:"link,attr"`
}

type CppCheckXMLFunction struct {
	Id       string `xml:"id,attr"`
	Name     string `xml:"name,attr"`
	Token    string `xml:"token,attr"`
	TokenDef string `xml:"tokenDef,attr"`
}

type CppCheckXMLScope struct {
	Id        string                `xml:"id,attr"`
	Type      string                `xml:"type,attr"`
	ClassName string                `xml:"className,attr"`
	NestedIn  string                `xml:"nestedIn,attr"`
	Function  string                `xml:"function,attr"`
	BodyStart string                `xml:"bodyStart,attr"`
	BodyEnd   string                `xml:"bodyEnd,attr"`
	Functions []CppCheckXMLFunction `xml:"functionList>function"`
}

type CppCheckXMLVariable struct {
	Id             string `xml:"id,attr"`
	NameToken      string `xml:"nameToken,attr"`
	TypeStartToken string `xml:"typeStartToken,attr"`
	Access         string `xml:"access,attr"`
	Scope          string `xml:"scope,attr"`
	IsArgument     string `xml:"isArgument,attr"`
	IsGlobal       string `xml:"isGlobal,attr"`
	IsLocal        string `xml:"isLocal,attr"`
	IsConst        string `xml:"isConst,attr"`
	IsVolatile     string `xml:"isVolatile,attr"`
	IsStatic       string `xml:"isStatic,attr"`
	IsPointer      string `xml:"isPointer,attr"`
	IsArray        string `xml:"isArray,attr"`
}

type CppCheckXMLConfiguration struct {
	Cfg        string                 `xml:"cfg,attr"`
	Directives []CppCheckXMLDirective `xml:"directivelist>directive"`
	Tokens     []CppCheckXMLToken     `xml:"tokenlist>token"`
	Scopes     []CppCheckXMLScope     `xml:"scopes>scope"`
	Variables  []CppCheckXMLVariable  `xml:"variables>var"`
}

type CppCheckXMLDump struct {
	XMLName        xml.Name                   `xml:"dumps"`
	RawFiles       []CppCheckXMLRawFile       `xml:"rawtokens>file"`
	Configurations []CppCheckXMLConfiguration `xml:"dump"`
}

func LoadDump(path string) (*Dump, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseDump(f, path)
}

func ParseDump(r io.Reader, path string) (*Dump, error) {
	var raw CppCheckXMLDump
	err := xml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode dump %s: %v", path, err)
	}
	files := make(map[string]string)
	for _, f := range raw.RawFiles {
		files[strconv.Itoa(f.Index)] = f.Name
	}
	dump := &Dump{Path: path}
	if name, ok := files["0"]; ok {
		dump.SourceFile = name
	}
	for i := range raw.Configurations {
		cfg := buildConfiguration(&raw.Configurations[i], files, path)
		if dump.SourceFile == "" && len(cfg.Tokens) > 0 {
			dump.SourceFile = cfg.Tokens[0].File
		}
		dump.Configurations = append(dump.Configurations, cfg)
	}
	return dump, nil
}

func isTrue(attr string) bool {
	return strings.EqualFold(attr, "true") || attr == "1"
}

// refTable maps cppcheck's hex ids to arena indices of one kind.
type refTable struct {
	kind       string
	dumpPath   string
	refs       map[string]Ref
	unresolved int
}

func newRefTable(kind, dumpPath string) *refTable {
	return &refTable{kind: kind, dumpPath: dumpPath, refs: make(map[string]Ref)}
}

func (t *refTable) lookup(id string) Ref {
	if id == "" || id == "0" {
		return NoRef
	}
	ref, ok := t.refs[id]
	if !ok {
		t.unresolved++
		return NoRef
	}
	return ref
}

func (t *refTable) report(cfgName string) {
	if t.unresolved > 0 {
		glog.Warningf("%s [%s]: %d %s references could not be resolved", t.dumpPath, cfgName, t.unresolved, t.kind)
	}
}

func buildConfiguration(raw *CppCheckXMLConfiguration, files map[string]string, dumpPath string) *Configuration {
	cfg := &Configuration{Name: raw.Cfg}
	tokens := newRefTable("token", dumpPath)
	scopes := newRefTable("scope", dumpPath)
	variables := newRefTable("variable", dumpPath)
	functions := newRefTable("function", dumpPath)

	for i, t := range raw.Tokens {
		tokens.refs[t.Id] = Ref(i)
	}
	for i, s := range raw.Scopes {
		scopes.refs[s.Id] = Ref(i)
	}
	for i, v := range raw.Variables {
		variables.refs[v.Id] = Ref(i)
	}
	var rawFunctions []CppCheckXMLFunction
	for _, s := range raw.Scopes {
		for _, f := range s.Functions {
			if _, seen := functions.refs[f.Id]; seen {
				continue
			}
			functions.refs[f.Id] = Ref(len(rawFunctions))
			rawFunctions = append(rawFunctions, f)
		}
	}

	cfg.Tokens = make([]Token, len(raw.Tokens))
	for i, t := range raw.Tokens {
		file := t.File
		if file == "" {
			file = files[t.FileIndex]
		}
		tok := Token{
			Id:             t.Id,
			File:           file,
			Line:           t.Linenr,
			Column:         t.Column,
			Str:            t.Str,
			Type:           t.Type,
			IsOp:           t.Type == "op",
			IsAssignmentOp: isTrue(t.IsAssignmentOp),
			IsName:         t.Type == "name",
			Scope:          scopes.lookup(t.Scope),
			Variable:       variables.lookup(t.Variable),
			Function:       functions.lookup(t.Function),
			AstParent:      tokens.lookup(t.AstParent),
			AstOperand1:    tokens.lookup(t.AstOperand1),
			AstOperand2:    tokens.lookup(t.AstOperand2),
			Link:           tokens.lookup(t.Link),
			Previous:       Ref(i - 1),
			Next:           Ref(i + 1),
		}
		if i == len(raw.Tokens)-1 {
			tok.Next = NoRef
		}
		cfg.Tokens[i] = tok
	}

	cfg.Scopes = make([]Scope, len(raw.Scopes))
	for i, s := range raw.Scopes {
		cfg.Scopes[i] = Scope{
			Id:        s.Id,
			Type:      s.Type,
			ClassName: s.ClassName,
			NestedIn:  scopes.lookup(s.NestedIn),
			Function:  functions.lookup(s.Function),
			BodyStart: tokens.lookup(s.BodyStart),
			BodyEnd:   tokens.lookup(s.BodyEnd),
		}
	}

	cfg.Functions = make([]Function, len(rawFunctions))
	for i, f := range rawFunctions {
		cfg.Functions[i] = Function{
			Id:       f.Id,
			Name:     f.Name,
			Token:    tokens.lookup(f.Token),
			TokenDef: tokens.lookup(f.TokenDef),
			Scope:    NoRef,
		}
	}
	linkFunctionScopes(cfg)

	cfg.Variables = make([]Variable, len(raw.Variables))
	for i, v := range raw.Variables {
		variable := Variable{
			Id:             v.Id,
			NameToken:      tokens.lookup(v.NameToken),
			TypeStartToken: tokens.lookup(v.TypeStartToken),
			Scope:          scopes.lookup(v.Scope),
			IsArgument:     v.Access == "Argument" || isTrue(v.IsArgument),
			IsGlobal:       v.Access == "Global" || isTrue(v.IsGlobal),
			IsLocal:        v.Access == "Local" || isTrue(v.IsLocal),
			IsConst:        isTrue(v.IsConst),
			IsVolatile:     isTrue(v.IsVolatile),
			IsStatic:       isTrue(v.IsStatic),
			IsPointer:      isTrue(v.IsPointer),
			IsArray:        isTrue(v.IsArray),
		}
		variable.Name = cfg.TokenStr(variable.NameToken)
		variable.TypeName = cfg.TokenStr(variable.TypeStartToken)
		cfg.Variables[i] = variable
	}

	for _, d := range raw.Directives {
		cfg.Directives = append(cfg.Directives, Directive{File: d.File, Line: d.Linenr, Str: d.Str})
	}

	for _, t := range []*refTable{tokens, scopes, variables, functions} {
		t.report(cfg.Name)
	}
	return cfg
}

// linkFunctionScopes fills Function.Scope from the scopes' function
// back-references. Dumps that omit the back-reference are linked by the
// scope's class name when that name is unique among the functions.
func linkFunctionScopes(cfg *Configuration) {
	for i := range cfg.Scopes {
		s := &cfg.Scopes[i]
		if s.Type != ScopeFunction || !s.Function.Valid() {
			continue
		}
		cfg.Functions[s.Function].Scope = Ref(i)
	}
	for i := range cfg.Scopes {
		s := &cfg.Scopes[i]
		if s.Type != ScopeFunction || s.Function.Valid() {
			continue
		}
		candidates := cfg.FunctionsByName(s.ClassName)
		if len(candidates) != 1 || cfg.Functions[candidates[0]].Scope.Valid() {
			continue
		}
		s.Function = candidates[0]
		cfg.Functions[candidates[0]].Scope = Ref(i)
	}
}
