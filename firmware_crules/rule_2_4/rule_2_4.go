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

package rule_2_4

import (
	"fmt"

	"naive.systems/fwcheck/analyzer/results"
	"naive.systems/fwcheck/cruleslib/options"
	"naive.systems/fwcheck/cruleslib/runner"
	"naive.systems/fwcheck/firmware/facts"
)

var loopKeywords = map[string]bool{"while": true, "for": true, "do": true}

// Analyze reports loop keywords in the body of an interrupt handler. Only
// the handler's own tokens are checked, loops in callees are allowed. A
// do-while loop has two keywords and is reported twice.
func Analyze(unit *facts.Unit, opts *options.CheckOptions) (*results.ViolationsList, error) {
	list := &results.ViolationsList{}
	for _, isr := range unit.Closure.Functions() {
		isrName := unit.FunctionName(isr)
		for _, tok := range facts.Tokens(unit.Reach.Own(isr)) {
			t := unit.Config.Token(tok)
			if !loopKeywords[t.Str] {
				continue
			}
			site := runner.TokenSite(unit, tok)
			site.Function = isrName
			site.Location = fmt.Sprintf("Use of %s inside %s", t.Str, isrName)
			runner.AddViolation(list, unit, opts, "2_4", site)
		}
	}
	return list, nil
}
