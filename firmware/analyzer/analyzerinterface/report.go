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

package analyzerinterface

import (
	"fmt"
	"sort"

	"github.com/golang/glog"
	"naive.systems/fwcheck/analyzer/results"
	"naive.systems/fwcheck/atomic"
	"naive.systems/fwcheck/cruleslib/i18n"
	"naive.systems/fwcheck/rulesets"
)

type Violation struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

type Rule struct {
	Ident      string      `json:"ident"`
	Alias      string      `json:"alias"`
	Subject    string      `json:"subject"`
	Severity   string      `json:"severity"`
	Violations []Violation `json:"violations"`
}

type Report struct {
	LinesOfCode int    `json:"lines_of_code,omitempty"`
	Rules       []Rule `json:"rules"`
}

// GenerateReport groups violations per rule, with a snippet of the source
// around each one.
func GenerateReport(allResults *results.ViolationsList, linesOfCode int, reportPath, lang, charset string) error {
	ruleMap := make(map[string]Rule)
	for _, v := range allResults.Violations {
		rule, exist := ruleMap[v.Rule]
		if !exist {
			rule = Rule{
				Ident:      rulesets.FullName(v.Rule),
				Alias:      v.Alias,
				Subject:    v.Message,
				Severity:   i18n.SeverityLabel(v.Severity, lang),
				Violations: make([]Violation, 0),
			}
		}
		code, err := rulesets.GetCode(v.Path, v.LineNumber, charset)
		if err != nil {
			glog.Errorf("GetCode: %v", err)
		}
		rule.Violations = append(rule.Violations, Violation{Path: v.Path, Line: v.LineNumber, Code: code, Details: v.Location})
		ruleMap[v.Rule] = rule
	}
	ruleIDs := make([]string, 0, len(ruleMap))
	for id := range ruleMap {
		ruleIDs = append(ruleIDs, id)
	}
	sort.Strings(ruleIDs)
	report := Report{LinesOfCode: linesOfCode, Rules: []Rule{}}
	for _, id := range ruleIDs {
		report.Rules = append(report.Rules, ruleMap[id])
	}
	err := atomic.WriteJSON(reportPath, &report)
	if err != nil {
		return fmt.Errorf("failed to write %s: %v", reportPath, err)
	}
	return nil
}
