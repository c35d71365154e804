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

package rule_2_5

import (
	"fmt"

	"github.com/golang/glog"
	"naive.systems/fwcheck/analyzer/results"
	"naive.systems/fwcheck/cruleslib/forbidden"
	"naive.systems/fwcheck/cruleslib/options"
	"naive.systems/fwcheck/cruleslib/runner"
	"naive.systems/fwcheck/firmware/facts"
)

// Analyze reports interrupt handlers that make more calls in their own
// body than isr.max_calls allows.
func Analyze(unit *facts.Unit, opts *options.CheckOptions) (*results.ViolationsList, error) {
	list := &results.ViolationsList{}
	maxCalls := opts.RuleConfig.ISR.MaxCalls
	if maxCalls == nil {
		glog.Warning("isr.max_calls is not configured, rule 2_5 skipped")
		return list, nil
	}
	for _, isr := range unit.Closure.Functions() {
		calls := forbidden.OwnCalls(unit, isr)
		if len(calls) <= *maxCalls {
			continue
		}
		fn := unit.Config.Function(isr)
		site := runner.TokenSite(unit, fn.Token)
		site.Function = fn.Name
		site.Location = fmt.Sprintf("%d function calls inside ISR %s, at most %d allowed", len(calls), fn.Name, *maxCalls)
		runner.AddViolation(list, unit, opts, "2_5", site)
	}
	return list, nil
}
