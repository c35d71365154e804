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

package runner

import (
	"naive.systems/fwcheck/analyzer/results"
	"naive.systems/fwcheck/cruleslib/options"
	"naive.systems/fwcheck/firmware/checker_integration/cppcheck"
	"naive.systems/fwcheck/firmware/facts"
)

// Site is where a rule fired and what it reports about it.
type Site struct {
	Path     string
	Line     int
	Column   int
	Function string
	Variable string
	Location string
}

// TokenSite places a site at a token of the unit.
func TokenSite(unit *facts.Unit, tok cppcheck.Ref) Site {
	if t := unit.Config.Token(tok); t != nil {
		return Site{Path: t.File, Line: t.Line, Column: t.Column}
	}
	return Site{Path: unit.SourceFile}
}

func NewViolation(unit *facts.Unit, opts *options.CheckOptions, ruleID string, site Site) *results.Violation {
	v := &results.Violation{
		Rule:       ruleID,
		Alias:      opts.RuleConfig.Rule(ruleID).Alias,
		Severity:   opts.Severity(ruleID),
		Repo:       unit.Repo,
		DumpFile:   unit.DumpPath,
		Path:       site.Path,
		LineNumber: site.Line,
		Column:     site.Column,
		Function:   site.Function,
		Variable:   site.Variable,
		Location:   site.Location,
		Message:    opts.Message(ruleID),
	}
	v.Fingerprint = v.ComputeFingerprint()
	return v
}

// AddViolation appends a violation for site to list.
func AddViolation(list *results.ViolationsList, unit *facts.Unit, opts *options.CheckOptions, ruleID string, site Site) {
	list.Add(NewViolation(unit, opts, ruleID, site))
}
