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

package rule_1_3

import (
	"fmt"

	"golang.org/x/exp/slices"
	"naive.systems/fwcheck/analyzer/results"
	"naive.systems/fwcheck/cruleslib/options"
	"naive.systems/fwcheck/cruleslib/runner"
	"naive.systems/fwcheck/firmware/checker_integration/cppcheck"
	"naive.systems/fwcheck/firmware/facts"
)

// Analyze reports globals written outside interrupt context. A global that
// an interrupt handler also writes belongs to the handler and is left to
// rule 1_1.
func Analyze(unit *facts.Unit, opts *options.CheckOptions) (*results.ViolationsList, error) {
	list := &results.ViolationsList{}
	cfg := unit.Config
	assignments := unit.GlobalAssignments()
	isrOwned := map[cppcheck.Ref]bool{}
	for _, a := range assignments {
		if unit.Closure.Contains(a.Function) {
			isrOwned[a.Variable] = true
		}
	}
	reported := map[cppcheck.Ref]bool{}
	for _, a := range assignments {
		if unit.Closure.Contains(a.Function) || isrOwned[a.Variable] || reported[a.Variable] {
			continue
		}
		v := cfg.Variable(a.Variable)
		if slices.Contains(opts.RuleConfig.Exceptions.Globals, v.TypeName) {
			continue
		}
		reported[a.Variable] = true
		runner.AddViolation(list, unit, opts, "1_3", runner.Site{
			Path:     a.File,
			Line:     a.Line,
			Function: a.FunctionName,
			Variable: v.Name,
			Location: fmt.Sprintf("global variable %s", v.Name),
		})
	}
	return list, nil
}
