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

package rulesets

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSource(t *testing.T, content []byte) string {
	path := filepath.Join(t.TempDir(), "main.c")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGetCode(t *testing.T) {
	path := writeSource(t, []byte("int a;\nint b;\nvoid f(void) {\n  a = 1;\n}\nint c;\n"))
	got, err := GetCode(path, 4, "utf8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "2| int b;\n3| void f(void) {\n> 4|   a = 1;\n5| }\n6| int c;\n"
	if got != expected {
		t.Errorf("unexpected code parsed: %q. expected: %q.", got, expected)
	}
	line, err := GetLine(path, 4, "utf8")
	if err != nil || line != "a = 1;" {
		t.Errorf("unexpected line parsed: %q, %v", line, err)
	}
}

func TestGetCodeGBK(t *testing.T) {
	// "/* 中断 */" in GBK
	path := writeSource(t, []byte{'/', '*', ' ', 0xd6, 0xd0, 0xb6, 0xcf, ' ', '*', '/', '\n'})
	line, err := GetLine(path, 1, "GBK")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line != "/* 中断 */" {
		t.Errorf("unexpected line parsed: %q", line)
	}
}

func TestValidateCharset(t *testing.T) {
	for _, testCase := range []struct {
		charset string
		valid   bool
	}{
		{"utf8", true},
		{"GBK", true},
		{"ISO-8859-1", true},
		{"no-such-charset", false},
	} {
		err := ValidateCharset(testCase.charset)
		if (err == nil) != testCase.valid {
			t.Errorf("unexpected result for %s: %v", testCase.charset, err)
		}
	}
}

func TestFullName(t *testing.T) {
	if got := FullName("2_4"); got != "FW 2.4" {
		t.Errorf("unexpected name parsed: %v. expected: %v.", got, "FW 2.4")
	}
}
