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

package testlib

import (
	"fmt"
	"sort"

	"naive.systems/fwcheck/analyzer/results"
	"naive.systems/fwcheck/cruleslib/options"
	"naive.systems/fwcheck/firmware/checker_integration/checkrule"
	"naive.systems/fwcheck/firmware/checker_integration/cppcheck"
	"naive.systems/fwcheck/firmware/facts"
)

// NewOption returns the options a rule sees in a default run.
func NewOption() *options.CheckOptions {
	return NewOptionWithConfig(checkrule.DefaultRuleConfig())
}

func NewOptionWithConfig(config *checkrule.RuleConfig) *options.CheckOptions {
	envOptions := &options.EnvOptions{Lang: "en", NumWorkers: 1}
	checkOptions := options.MakeCheckOptions(&checkrule.JSONOption{}, envOptions, config)
	return &checkOptions
}

// NewUnit derives the facts of the builder's configuration with the
// settings of opts. Tasks are derived as well.
func NewUnit(b *Builder, opts *options.CheckOptions) *facts.Unit {
	dump := b.Dump("test.c.dump")
	return facts.NewUnit(dump, "test", dump.Configurations[0], opts.RuleConfig.Settings(true))
}

// UnitOf is NewUnit for an already built dump.
func UnitOf(dump *cppcheck.Dump, opts *options.CheckOptions) *facts.Unit {
	return facts.NewUnit(dump, "test", dump.Configurations[0], opts.RuleConfig.Settings(true))
}

// ToTestResult renders violations as sorted "rule path:line location"
// lines, which keeps test expectations short.
func ToTestResult(list *results.ViolationsList, err error) ([]string, error) {
	if err != nil {
		return nil, err
	}
	lines := []string{}
	if list == nil {
		return lines, nil
	}
	for _, v := range list.Violations {
		lines = append(lines, fmt.Sprintf("%s %s:%d %s", v.Rule, v.Path, v.LineNumber, v.Location))
	}
	sort.Strings(lines)
	return lines, nil
}
