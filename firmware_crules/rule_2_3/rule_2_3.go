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

package rule_2_3

import (
	"fmt"

	"naive.systems/fwcheck/analyzer/results"
	"naive.systems/fwcheck/cruleslib/forbidden"
	"naive.systems/fwcheck/cruleslib/options"
	"naive.systems/fwcheck/firmware/facts"
)

func Analyze(unit *facts.Unit, opts *options.CheckOptions) (*results.ViolationsList, error) {
	return forbidden.Scan(unit, opts, forbidden.Query{
		RuleID:     "2_3",
		Roots:      unit.Closure,
		Substrings: opts.RuleConfig.Forbidden.Print,
		Describe: func(token, isr string) string {
			return fmt.Sprintf("function call to %s inside ISR %s", token, isr)
		},
	}), nil
}
