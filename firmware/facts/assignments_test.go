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

package facts_test

import (
	"reflect"
	"testing"

	"naive.systems/fwcheck/cruleslib/testlib"
	"naive.systems/fwcheck/firmware/checker_integration/cppcheck"
	"naive.systems/fwcheck/firmware/facts"
)

func TestVariableClassifier(t *testing.T) {
	b := testlib.NewBuilder("main.c")
	a := b.Global("int", "a")
	c := b.Global("uint8_t", "c", testlib.Volatile)
	var local cppcheck.Ref
	b.Function("main", func(f *testlib.Body) {
		local = f.Local("int", "i", testlib.Volatile)
	})
	cfg := b.Build()

	if got := facts.Globals(cfg); !reflect.DeepEqual(got, []cppcheck.Ref{a, c}) {
		t.Errorf("unexpected globals parsed: %v. expected: %v.", got, []cppcheck.Ref{a, c})
	}
	if got := facts.Locals(cfg); !reflect.DeepEqual(got, []cppcheck.Ref{local}) {
		t.Errorf("unexpected locals parsed: %v. expected: %v.", got, []cppcheck.Ref{local})
	}
	if got := facts.Arguments(cfg); len(got) != 0 {
		t.Errorf("unexpected arguments parsed: %v", got)
	}
	if got := facts.Classify(cfg.Variable(local)); got != facts.StorageLocal {
		t.Errorf("unexpected storage class parsed: %v. expected: %v.", got, facts.StorageLocal)
	}
	if cfg.Variable(c).TypeName != "uint8_t" {
		t.Errorf("unexpected type name parsed: %v", cfg.Variable(c).TypeName)
	}
}

func TestAssignments(t *testing.T) {
	b := testlib.NewBuilder("main.c")
	b.GlobalInit("int", "initialized")
	counter := b.Global("int", "counter")
	buffer := b.Global("char", "buffer", testlib.Array)
	ptr := b.Global("int", "ptr")
	var local cppcheck.Ref
	mainFn := b.Function("main", func(f *testlib.Body) {
		local = f.Local("int", "i")
		f.Assign(counter)
		f.AssignIndex(buffer)
		f.AssignDeref(ptr)
		f.Assign(local)
	})
	isr := b.Function("isr", func(f *testlib.Body) {
		f.Increment(counter)
	})
	cfg := b.Build()

	type summary struct {
		Function string
		Variable cppcheck.Ref
		Owner    cppcheck.Ref
	}
	got := []summary{}
	for _, a := range facts.Assignments(cfg, facts.NewResolver(cfg)) {
		got = append(got, summary{a.FunctionName, a.Variable, a.Function})
		if a.File != "main.c" || a.Line == 0 {
			t.Errorf("unexpected location parsed: %s:%d", a.File, a.Line)
		}
	}
	expected := []summary{
		{"main", counter, mainFn},
		{"main", buffer, mainFn},
		{"main", local, mainFn},
		{"isr", counter, isr},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("unexpected assignments parsed: %v. expected: %v.", got, expected)
	}

	globals := facts.GlobalAssignments(cfg, facts.Assignments(cfg, facts.NewResolver(cfg)))
	if len(globals) != 3 {
		t.Errorf("unexpected global assignment count parsed: %v. expected: %v.", len(globals), 3)
	}
}
