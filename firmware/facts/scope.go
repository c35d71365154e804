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
	"fmt"

	"naive.systems/fwcheck/firmware/checker_integration/cppcheck"
)

type scopeOwner struct {
	done     bool
	scope    cppcheck.Ref
	function cppcheck.Ref
	err      error
}

// Resolver maps tokens to the function that lexically owns them. Results
// are cached per scope, so a configuration is walked at most once per
// scope chain.
type Resolver struct {
	cfg   *cppcheck.Configuration
	cache []scopeOwner
}

func NewResolver(cfg *cppcheck.Configuration) *Resolver {
	return &Resolver{cfg: cfg, cache: make([]scopeOwner, len(cfg.Scopes))}
}

// FunctionScope walks outward from the token's scope to the nearest Function
// scope. It does not cache.
func FunctionScope(cfg *cppcheck.Configuration, tok cppcheck.Ref) (cppcheck.Ref, error) {
	t := cfg.Token(tok)
	if t == nil {
		return cppcheck.NoRef, &ModelIntegrityError{Err: fmt.Errorf("%w: no token %d", ErrMalformedScope, tok)}
	}
	scope, err := walkToFunction(cfg, t.Scope)
	if err != nil {
		return cppcheck.NoRef, tokenError(t, err)
	}
	return scope, nil
}

func walkToFunction(cfg *cppcheck.Configuration, start cppcheck.Ref) (cppcheck.Ref, error) {
	if !start.Valid() {
		return cppcheck.NoRef, fmt.Errorf("%w: token has no scope", ErrMalformedScope)
	}
	s := start
	// A chain longer than the scope count has a cycle.
	for steps := 0; steps <= len(cfg.Scopes); steps++ {
		sc := cfg.Scope(s)
		if sc == nil {
			return cppcheck.NoRef, fmt.Errorf("%w: dangling scope reference %d", ErrMalformedScope, s)
		}
		switch sc.Type {
		case cppcheck.ScopeFunction:
			return s, nil
		case cppcheck.ScopeGlobal:
			return cppcheck.NoRef, ErrGlobalScope
		}
		if !sc.NestedIn.Valid() {
			return cppcheck.NoRef, fmt.Errorf("%w: %s scope %s is not nested in any scope", ErrMalformedScope, sc.Type, sc.Id)
		}
		s = sc.NestedIn
	}
	return cppcheck.NoRef, fmt.Errorf("%w: scope chain from %s has a cycle", ErrMalformedScope, cfg.Scopes[start].Id)
}

func tokenError(t *cppcheck.Token, err error) error {
	return &ModelIntegrityError{Token: t.Id, File: t.File, Line: t.Line, Err: err}
}

func (r *Resolver) owner(tok cppcheck.Ref) (*scopeOwner, *cppcheck.Token) {
	t := r.cfg.Token(tok)
	if t == nil {
		return &scopeOwner{err: fmt.Errorf("%w: no token %d", ErrMalformedScope, tok)}, nil
	}
	if !t.Scope.Valid() || int(t.Scope) >= len(r.cache) {
		return &scopeOwner{err: fmt.Errorf("%w: token has no scope", ErrMalformedScope)}, t
	}
	entry := &r.cache[t.Scope]
	if entry.done {
		return entry, t
	}
	entry.done = true
	entry.scope, entry.err = walkToFunction(r.cfg, t.Scope)
	entry.function = cppcheck.NoRef
	if entry.err == nil {
		sc := r.cfg.Scope(entry.scope)
		if sc.Function.Valid() {
			entry.function = sc.Function
		} else {
			entry.err = fmt.Errorf("%w: function scope %s (%s) has no function", ErrMalformedScope, sc.Id, sc.ClassName)
		}
	}
	return entry, t
}

// FunctionScope is the cached form of the package level FunctionScope.
func (r *Resolver) FunctionScope(tok cppcheck.Ref) (cppcheck.Ref, error) {
	entry, t := r.owner(tok)
	if entry.err != nil && entry.scope == cppcheck.NoRef {
		if t == nil {
			return cppcheck.NoRef, &ModelIntegrityError{Err: entry.err}
		}
		return cppcheck.NoRef, tokenError(t, entry.err)
	}
	return entry.scope, nil
}

// Function returns the function owning tok.
func (r *Resolver) Function(tok cppcheck.Ref) (cppcheck.Ref, error) {
	entry, t := r.owner(tok)
	if entry.err != nil {
		if t == nil {
			return cppcheck.NoRef, &ModelIntegrityError{Err: entry.err}
		}
		return cppcheck.NoRef, tokenError(t, entry.err)
	}
	return entry.function, nil
}
