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

package rule_4_1

import (
	"fmt"

	"golang.org/x/exp/slices"
	"naive.systems/fwcheck/analyzer/results"
	"naive.systems/fwcheck/cruleslib/forbidden"
	"naive.systems/fwcheck/cruleslib/options"
	"naive.systems/fwcheck/cruleslib/runner"
	"naive.systems/fwcheck/firmware/facts"
)

// Analyze reports RTOS primitives called by their task name from the body
// of an interrupt handler.
func Analyze(unit *facts.Unit, opts *options.CheckOptions) (*results.ViolationsList, error) {
	list := &results.ViolationsList{}
	rtos := opts.RuleConfig.RTOS
	for _, isr := range unit.Closure.Functions() {
		isrName := unit.FunctionName(isr)
		for _, tok := range forbidden.OwnCalls(unit, isr) {
			name := unit.Config.Token(tok).Str
			if !slices.Contains(rtos.ISRPrimitives, name) {
				continue
			}
			site := runner.TokenSite(unit, tok)
			site.Function = isrName
			site.Location = fmt.Sprintf("call to %s inside ISR %s, use %s%s", name, isrName, name, rtos.ISRSuffix)
			runner.AddViolation(list, unit, opts, "4_1", site)
		}
	}
	return list, nil
}
