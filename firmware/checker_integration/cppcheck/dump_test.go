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
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const timerDump = `<?xml version="1.0"?>
<dumps>
  <platform name="native"/>
  <rawtokens>
    <file index="0" name="src/timer.c"/>
    <file index="1" name="src/timer.h"/>
  </rawtokens>
  <dump cfg="">
    <directivelist>
      <directive file="src/timer.h" linenr="1" str="#ifndef TIMER_H"/>
      <directive file="src/timer.h" linenr="2" str="#define TIMER_H"/>
      <directive file="src/timer.h" linenr="4" str="#endif"/>
    </directivelist>
    <tokenlist>
      <token id="a1" fileIndex="0" linenr="1" column="1" str="int" scope="s1" type="name"/>
      <token id="a2" fileIndex="0" linenr="1" column="5" str="counter" scope="s1" type="name" varId="1" variable="v1"/>
      <token id="a3" fileIndex="0" linenr="1" column="12" str=";" scope="s1"/>
      <token id="a4" fileIndex="0" linenr="2" column="1" str="void" scope="s1" type="name"/>
      <token id="a5" fileIndex="0" linenr="2" column="6" str="Handler_timer" scope="s1" type="name" function="f1"/>
      <token id="a6" fileIndex="0" linenr="2" column="19" str="(" scope="s1" link="a7"/>
      <token id="a7" fileIndex="0" linenr="2" column="20" str=")" scope="s1" link="a6"/>
      <token id="a8" fileIndex="0" linenr="2" column="22" str="{" scope="s2" link="a11"/>
      <token id="a9" fileIndex="0" linenr="2" column="24" str="counter" scope="s2" type="name" variable="v1" astParent="a10"/>
      <token id="a10" fileIndex="0" linenr="2" column="31" str="++" scope="s2" type="op" astOperand1="a9"/>
      <token id="a11" fileIndex="0" linenr="2" column="35" str="}" scope="s2" link="a8" astParent="deadbeef"/>
    </tokenlist>
    <scopes>
      <scope id="s1" type="Global" bodyStart="0" bodyEnd="0">
        <functionList>
          <function id="f1" token="a5" tokenDef="a5" name="Handler_timer" type="Function"/>
        </functionList>
      </scope>
      <scope id="s2" type="Function" className="Handler_timer" bodyStart="a8" bodyEnd="a11" nestedIn="s1" function="f1"/>
    </scopes>
    <variables>
      <var id="v1" nameToken="a2" typeStartToken="a1" typeEndToken="a1" access="Global" scope="s1" isVolatile="false" isConst="false"/>
    </variables>
  </dump>
</dumps>
`

func TestParseDump(t *testing.T) {
	dump, err := ParseDump(strings.NewReader(timerDump), "timer.c.dump")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dump.SourceFile != "src/timer.c" {
		t.Errorf("unexpected source file parsed: %v. expected: %v.", dump.SourceFile, "src/timer.c")
	}
	if len(dump.Configurations) != 1 {
		t.Fatalf("unexpected configuration count parsed: %v. expected: %v.", len(dump.Configurations), 1)
	}
	cfg := dump.Configurations[0]
	if len(cfg.Tokens) != 11 || len(cfg.Scopes) != 2 || len(cfg.Functions) != 1 || len(cfg.Variables) != 1 {
		t.Fatalf("unexpected entity counts: %d tokens, %d scopes, %d functions, %d variables",
			len(cfg.Tokens), len(cfg.Scopes), len(cfg.Functions), len(cfg.Variables))
	}
	if len(cfg.Directives) != 3 {
		t.Errorf("unexpected directive count parsed: %v. expected: %v.", len(cfg.Directives), 3)
	}

	counter := cfg.Variable(0)
	if counter.Name != "counter" || counter.TypeName != "int" || !counter.IsGlobal || counter.IsLocal || counter.IsVolatile {
		t.Errorf("unexpected variable parsed: %+v", counter)
	}

	for _, testCase := range []struct {
		tok      Ref
		file     string
		scope    Ref
		variable Ref
		function Ref
		isOp     bool
	}{
		{1, "src/timer.c", 0, 0, NoRef, false},
		{4, "src/timer.c", 0, NoRef, 0, false},
		{8, "src/timer.c", 1, 0, NoRef, false},
		{9, "src/timer.c", 1, NoRef, NoRef, true},
	} {
		tok := cfg.Token(testCase.tok)
		if tok.File != testCase.file || tok.Scope != testCase.scope || tok.Variable != testCase.variable ||
			tok.Function != testCase.function || tok.IsOp != testCase.isOp {
			t.Errorf("unexpected token %d parsed: %+v", testCase.tok, tok)
		}
	}

	plus := cfg.Token(9)
	if plus.AstOperand1 != 8 || cfg.Token(8).AstParent != 9 {
		t.Errorf("unexpected ast links: operand1 %v, parent %v", plus.AstOperand1, cfg.Token(8).AstParent)
	}
	if cfg.Token(0).Previous != NoRef || cfg.Token(10).Next != NoRef || cfg.Token(5).Next != 6 {
		t.Errorf("unexpected token sequence links")
	}
	// astParent="deadbeef" does not resolve.
	if cfg.Token(10).AstParent != NoRef {
		t.Errorf("unexpected resolution of dangling reference: %v", cfg.Token(10).AstParent)
	}

	fn := cfg.Function(0)
	if fn.Name != "Handler_timer" || fn.Scope != 1 {
		t.Errorf("unexpected function parsed: %+v", fn)
	}
}

func TestParseDumpLinksScopeByClassName(t *testing.T) {
	withoutBackRef := strings.Replace(timerDump, `nestedIn="s1" function="f1"`, `nestedIn="s1"`, 1)
	dump, err := ParseDump(strings.NewReader(withoutBackRef), "timer.c.dump")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := dump.Configurations[0]
	if cfg.Function(0).Scope != 1 || cfg.Scope(1).Function != 0 {
		t.Errorf("unexpected scope link: function scope %v, scope function %v", cfg.Function(0).Scope, cfg.Scope(1).Function)
	}
}

func TestParseDumpExplicitStorageFlags(t *testing.T) {
	legacy := strings.Replace(timerDump, `access="Global"`, `isGlobal="true"`, 1)
	dump, err := ParseDump(strings.NewReader(legacy), "timer.c.dump")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dump.Configurations[0].Variable(0).IsGlobal {
		t.Errorf("isGlobal attribute was not honoured")
	}
}

func TestParseDumpMalformed(t *testing.T) {
	_, err := ParseDump(strings.NewReader("<dumps><dump cfg=\"\"><tokenlist>"), "broken.dump")
	if err == nil {
		t.Errorf("expected an error for a truncated dump")
	}
}

func TestLoadDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timer.c.dump")
	if err := os.WriteFile(path, []byte(timerDump), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dump, err := LoadDump(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dump.Path != path {
		t.Errorf("unexpected path parsed: %v. expected: %v.", dump.Path, path)
	}
	if _, err := LoadDump(filepath.Join(t.TempDir(), "missing.dump")); err == nil {
		t.Errorf("expected an error for a missing dump")
	}
}
