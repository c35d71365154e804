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
	"strings"

	"github.com/golang/glog"
	"naive.systems/fwcheck/firmware/checker_integration/cppcheck"
)

// FunctionSet is a set of functions that remembers insertion order.
type FunctionSet struct {
	order   []cppcheck.Ref
	members map[cppcheck.Ref]struct{}
}

func NewFunctionSet() *FunctionSet {
	return &FunctionSet{members: make(map[cppcheck.Ref]struct{})}
}

// Add inserts fn and reports whether it was new.
func (s *FunctionSet) Add(fn cppcheck.Ref) bool {
	if !fn.Valid() {
		return false
	}
	if _, ok := s.members[fn]; ok {
		return false
	}
	s.members[fn] = struct{}{}
	s.order = append(s.order, fn)
	return true
}

func (s *FunctionSet) Contains(fn cppcheck.Ref) bool {
	_, ok := s.members[fn]
	return ok
}

func (s *FunctionSet) Functions() []cppcheck.Ref {
	return s.order
}

func (s *FunctionSet) Len() int {
	return len(s.order)
}

func (s *FunctionSet) Names(cfg *cppcheck.Configuration) []string {
	names := make([]string, 0, len(s.order))
	for _, fn := range s.order {
		names = append(names, cfg.Function(fn).Name)
	}
	return names
}

// ContainsAny reports whether s contains one of the non-empty substrings.
func ContainsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// registeredCallbacks scans call expressions to the given APIs and returns
// the functions passed at the configured argument positions.
func registeredCallbacks(cfg *cppcheck.Configuration, apis []RegistrationAPI) []cppcheck.Ref {
	callbacks := []cppcheck.Ref{}
	if len(apis) == 0 {
		return callbacks
	}
	for i := range cfg.Tokens {
		paren := cppcheck.Ref(i)
		if !IsFunctionCall(cfg, paren) {
			continue
		}
		name := CallName(cfg, paren)
		for _, api := range apis {
			if api.Name != name {
				continue
			}
			arg := argumentAt(CallArguments(cfg, paren), api.Arg)
			fn := ResolveCallback(cfg, arg)
			if !fn.Valid() {
				t := cfg.Token(paren)
				glog.V(1).Infof("%s:%d: callback of %s not resolved", t.File, t.Line, name)
				continue
			}
			callbacks = append(callbacks, fn)
		}
	}
	return callbacks
}

// InterruptClosure collects the functions that run in interrupt context:
// those whose name contains one of names, and those registered through one
// of apis. Membership is by function identity.
func InterruptClosure(cfg *cppcheck.Configuration, names []string, apis []RegistrationAPI) *FunctionSet {
	closure := NewFunctionSet()
	for i := range cfg.Functions {
		if ContainsAny(cfg.Functions[i].Name, names) {
			closure.Add(cppcheck.Ref(i))
		}
	}
	for _, fn := range registeredCallbacks(cfg, apis) {
		closure.Add(fn)
	}
	return closure
}

// TaskFunctions collects RTOS task entry points the same way as
// InterruptClosure. Functions already in the interrupt closure are never
// tasks.
func TaskFunctions(cfg *cppcheck.Configuration, names []string, apis []RegistrationAPI, closure *FunctionSet) *FunctionSet {
	tasks := NewFunctionSet()
	add := func(fn cppcheck.Ref) {
		if closure != nil && closure.Contains(fn) {
			return
		}
		tasks.Add(fn)
	}
	for i := range cfg.Functions {
		if ContainsAny(cfg.Functions[i].Name, names) {
			add(cppcheck.Ref(i))
		}
	}
	for _, fn := range registeredCallbacks(cfg, apis) {
		add(fn)
	}
	return tasks
}
