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

package rule_3_2

import (
	"fmt"
	"path/filepath"

	"naive.systems/fwcheck/analyzer/results"
	"naive.systems/fwcheck/cruleslib/options"
	"naive.systems/fwcheck/cruleslib/runner"
	"naive.systems/fwcheck/firmware/facts"
)

// Analyze reports the first definition in each header: an operator whose
// first operand is a variable. Prototypes and pointer declarators have no
// such operand.
func Analyze(unit *facts.Unit, opts *options.CheckOptions) (*results.ViolationsList, error) {
	list := &results.ViolationsList{}
	cfg := unit.Config
	reported := map[string]bool{}
	for i := range cfg.Tokens {
		t := &cfg.Tokens[i]
		if !t.IsOp || reported[t.File] || !opts.RuleConfig.IsHeader(t.File) {
			continue
		}
		operand := cfg.Token(t.AstOperand1)
		if operand == nil || !operand.Variable.Valid() {
			continue
		}
		reported[t.File] = true
		runner.AddViolation(list, unit, opts, "3_2", runner.Site{
			Path:     t.File,
			Line:     t.Line,
			Variable: cfg.Variable(operand.Variable).Name,
			Location: fmt.Sprintf("Use of C code declaration in line %d inside file %s", t.Line, filepath.Base(t.File)),
		})
	}
	return list, nil
}
