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

package rule_1_2

import (
	"fmt"

	"naive.systems/fwcheck/analyzer/results"
	"naive.systems/fwcheck/cruleslib/options"
	"naive.systems/fwcheck/cruleslib/runner"
	"naive.systems/fwcheck/firmware/checker_integration/cppcheck"
	"naive.systems/fwcheck/firmware/facts"
)

func Analyze(unit *facts.Unit, opts *options.CheckOptions) (*results.ViolationsList, error) {
	list := &results.ViolationsList{}
	cfg := unit.Config
	reported := map[cppcheck.Ref]bool{}
	for _, a := range unit.Assignments {
		// interrupt handlers may keep volatile locals
		if unit.Closure.Contains(a.Function) || reported[a.Variable] {
			continue
		}
		v := cfg.Variable(a.Variable)
		if v == nil || !v.IsLocal || !v.IsVolatile {
			continue
		}
		reported[a.Variable] = true
		runner.AddViolation(list, unit, opts, "1_2", runner.Site{
			Path:     a.File,
			Line:     a.Line,
			Function: a.FunctionName,
			Variable: v.Name,
			Location: fmt.Sprintf("variable %s in function %s", v.Name, a.FunctionName),
		})
	}
	return list, nil
}
