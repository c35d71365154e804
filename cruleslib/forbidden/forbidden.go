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

// Package forbidden finds tokens that must not run in a given execution
// context, such as delay calls inside interrupt handlers.
package forbidden

import (
	"github.com/RoaringBitmap/roaring/v2"
	"naive.systems/fwcheck/analyzer/results"
	"naive.systems/fwcheck/cruleslib/options"
	"naive.systems/fwcheck/cruleslib/runner"
	"naive.systems/fwcheck/firmware/checker_integration/cppcheck"
	"naive.systems/fwcheck/firmware/facts"
)

type Query struct {
	RuleID string
	// Roots are the context entry points, e.g. the interrupt closure.
	Roots *facts.FunctionSet
	// Substrings match against the token text.
	Substrings []string
	// CallsOnly restricts matches to call sites.
	CallsOnly bool
	// Describe builds the location text from the matched token text and
	// the root function name.
	Describe func(token, root string) string
}

// Scan reports every token reachable from the roots whose text contains one
// of the substrings. A token reachable from several roots is reported once,
// attributed to the first root in closure order.
func Scan(unit *facts.Unit, opts *options.CheckOptions, q Query) *results.ViolationsList {
	list := &results.ViolationsList{}
	cfg := unit.Config
	reported := roaring.New()
	for _, root := range q.Roots.Functions() {
		rootName := unit.FunctionName(root)
		for _, tok := range facts.Tokens(unit.Reach.Expand(root)) {
			if reported.Contains(uint32(tok)) {
				continue
			}
			t := cfg.Token(tok)
			if !facts.ContainsAny(t.Str, q.Substrings) {
				continue
			}
			if q.CallsOnly && !facts.IsCallToken(cfg, tok) {
				continue
			}
			reported.Add(uint32(tok))
			site := runner.TokenSite(unit, tok)
			site.Function = rootName
			site.Location = q.Describe(t.Str, rootName)
			runner.AddViolation(list, unit, opts, q.RuleID, site)
		}
	}
	return list
}

// OwnCalls lists the call sites in the body of fn itself, callees excluded.
func OwnCalls(unit *facts.Unit, fn cppcheck.Ref) []cppcheck.Ref {
	calls := []cppcheck.Ref{}
	for _, tok := range facts.Tokens(unit.Reach.Own(fn)) {
		if facts.IsCallToken(unit.Config, tok) {
			calls = append(calls, tok)
		}
	}
	return calls
}
