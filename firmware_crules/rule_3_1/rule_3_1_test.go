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

package rule_3_1

import (
	"reflect"
	"testing"

	"naive.systems/fwcheck/cruleslib/testlib"
	"naive.systems/fwcheck/firmware/checker_integration/cppcheck"
)

func TestCanonical(t *testing.T) {
	for _, testCase := range []struct {
		name     string
		expected string
	}{
		{"foo.h", "foo_h"},
		{"FOO_H", "foo_h"},
		{"__FOO_H__", "foo_h"},
		{"fooBar.h", "foo_bar_h"},
		{"FOO_BAR_H", "foo_bar_h"},
		{"  MyDriver_H ", "my_driver_h"},
		{"lcd-2004.hpp", "lcd_2004_hpp"},
	} {
		if got := Canonical(testCase.name); got != testCase.expected {
			t.Errorf("unexpected canonical name of %q: %q. expected: %q.", testCase.name, got, testCase.expected)
		}
	}
}

func directives(strs ...string) []cppcheck.Directive {
	ds := []cppcheck.Directive{}
	for i, str := range strs {
		ds = append(ds, cppcheck.Directive{File: "inc/fooBar.h", Line: i + 1, Str: str})
	}
	return ds
}

func TestHasGuard(t *testing.T) {
	for _, testCase := range []struct {
		name       string
		directives []cppcheck.Directive
		expected   bool
	}{
		{"guarded", directives("#ifndef FOO_BAR_H", "#define FOO_BAR_H", "#endif"), true},
		{"guarded with comment", directives("#ifndef __FOO_BAR_H__", "#define __FOO_BAR_H__", "#include <stdint.h>", "#endif /* FOO_BAR_H */"), true},
		{"missing endif", directives("#ifndef FOO_BAR_H", "#define FOO_BAR_H"), false},
		{"too short", directives("#pragma once"), false},
		{"ifdef", directives("#ifdef FOO_BAR_H", "#define FOO_BAR_H", "#endif"), false},
		{"uppercased camel", directives("#ifndef FOOBAR_H", "#define FOOBAR_H", "#endif"), true},
		{"lowercase camel", directives("#ifndef fooBar_h", "#define fooBar_h", "#endif"), true},
		{"define mismatch", directives("#ifndef FOO_BAR_H", "#define FOOBAR_H", "#endif"), false},
		{"glued extension", directives("#ifndef FOOBARH", "#define FOOBARH", "#endif"), false},
		{"other file name", directives("#ifndef BAZ_H", "#define BAZ_H", "#endif"), false},
		{"endif not last", directives("#ifndef FOO_BAR_H", "#define FOO_BAR_H", "#endif", "#define X 1"), false},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			if got := HasGuard("inc/fooBar.h", testCase.directives); got != testCase.expected {
				t.Errorf("unexpected guard check: %v. expected: %v.", got, testCase.expected)
			}
		})
	}
}

func build(withEndif bool) *testlib.Builder {
	b := testlib.NewBuilder("main.c")
	b.SetFile("driver.h")
	b.Directive("#ifndef DRIVER_H")
	b.Directive("#define DRIVER_H")
	b.Prototype("driver_init")
	if withEndif {
		b.Directive("#endif")
	}
	b.SetFile("main.c")
	b.Function("main", nil)
	return b
}

func TestAnalyze(t *testing.T) {
	opts := testlib.NewOption()
	got, err := testlib.ToTestResult(Analyze(testlib.NewUnit(build(true), opts), opts))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("unexpected violations: %v", got)
	}

	got, err = testlib.ToTestResult(Analyze(testlib.NewUnit(build(false), opts), opts))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"3_1 driver.h:1 no include guard detected in file driver.h"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("unexpected violations: %v. expected: %v.", got, expected)
	}
}

func TestAnalyzeHeaderWithoutDirectives(t *testing.T) {
	b := testlib.NewBuilder("board.h")
	b.Prototype("board_init")
	opts := testlib.NewOption()
	got, err := testlib.ToTestResult(Analyze(testlib.NewUnit(b, opts), opts))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"3_1 board.h:1 no include guard detected in file board.h"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("unexpected violations: %v. expected: %v.", got, expected)
	}
}

func TestAnalyzeUppercasedCamelGuard(t *testing.T) {
	b := testlib.NewBuilder("main.c")
	b.SetFile("inc/lcdDriver.h")
	b.Directive("#ifndef LCDDRIVER_H")
	b.Directive("#define LCDDRIVER_H")
	b.Prototype("lcd_init")
	b.Directive("#endif")
	b.SetFile("main.c")
	b.Function("main", nil)
	opts := testlib.NewOption()
	got, err := testlib.ToTestResult(Analyze(testlib.NewUnit(b, opts), opts))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("unexpected violations: %v", got)
	}
}
