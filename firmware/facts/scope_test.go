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
	"errors"
	"testing"

	"naive.systems/fwcheck/cruleslib/testlib"
	"naive.systems/fwcheck/firmware/checker_integration/cppcheck"
	"naive.systems/fwcheck/firmware/facts"
)

func TestResolverFunction(t *testing.T) {
	b := testlib.NewBuilder("main.c")
	counter := b.Global("int", "counter")
	var nested cppcheck.Ref
	handler := b.Function("Handler_timer", func(f *testlib.Body) {
		f.If(func(f *testlib.Body) {
			f.Loop("while", func(f *testlib.Body) {
				f.Increment(counter)
				nested = f.Scope()
			})
		})
	})
	cfg := b.Build()
	r := facts.NewResolver(cfg)

	for i := range cfg.Tokens {
		tok := cppcheck.Ref(i)
		if cfg.Tokens[i].Scope != nested {
			continue
		}
		fn, err := r.Function(tok)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fn != handler {
			t.Errorf("unexpected owner parsed: %v. expected: %v.", fn, handler)
		}
		scope, err := facts.FunctionScope(cfg, tok)
		if err != nil || cfg.Scope(scope).Type != cppcheck.ScopeFunction {
			t.Errorf("unexpected function scope: %v, %v", scope, err)
		}
	}

	nameTok := cfg.Variable(counter).NameToken
	_, err := r.Function(nameTok)
	if !errors.Is(err, facts.ErrGlobalScope) || !errors.Is(err, facts.ErrMalformedScope) {
		t.Errorf("unexpected error for a global token: %v", err)
	}
}

func TestResolverMalformedScopes(t *testing.T) {
	for _, testCase := range []struct {
		name   string
		breaks func(cfg *cppcheck.Configuration, inner cppcheck.Ref)
	}{
		{"dangling parent", func(cfg *cppcheck.Configuration, inner cppcheck.Ref) {
			cfg.Scopes[inner].NestedIn = 42
		}},
		{"missing parent", func(cfg *cppcheck.Configuration, inner cppcheck.Ref) {
			cfg.Scopes[inner].NestedIn = cppcheck.NoRef
		}},
		{"cycle", func(cfg *cppcheck.Configuration, inner cppcheck.Ref) {
			cfg.Scopes[inner].NestedIn = inner
		}},
		{"function scope without function", func(cfg *cppcheck.Configuration, inner cppcheck.Ref) {
			cfg.Scopes[cfg.Scopes[inner].NestedIn].Function = cppcheck.NoRef
		}},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			b := testlib.NewBuilder("main.c")
			flag := b.Global("int", "flag")
			var inner cppcheck.Ref
			b.Function("isr", func(f *testlib.Body) {
				f.If(func(f *testlib.Body) {
					f.Assign(flag)
					inner = f.Scope()
				})
			})
			cfg := b.Build()
			testCase.breaks(cfg, inner)
			var tok cppcheck.Ref = cppcheck.NoRef
			for i := range cfg.Tokens {
				if cfg.Tokens[i].Scope == inner {
					tok = cppcheck.Ref(i)
					break
				}
			}
			_, err := facts.NewResolver(cfg).Function(tok)
			if !errors.Is(err, facts.ErrMalformedScope) || errors.Is(err, facts.ErrGlobalScope) {
				t.Errorf("unexpected error parsed: %v. expected: %v.", err, facts.ErrMalformedScope)
			}
			var integrity *facts.ModelIntegrityError
			if !errors.As(err, &integrity) || integrity.File != "main.c" {
				t.Errorf("expected a ModelIntegrityError with location, got %v", err)
			}
			// Assignments skip the broken token instead of failing.
			if got := facts.Assignments(cfg, facts.NewResolver(cfg)); len(got) != 0 {
				t.Errorf("unexpected assignments parsed: %v. expected none.", got)
			}
		})
	}
}
