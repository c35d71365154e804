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

/*
This package should not import any rule packages to avoid recursive import.
*/
package filter

import (
	"github.com/golang/glog"
	"naive.systems/fwcheck/analyzer/results"
	"naive.systems/fwcheck/diff"
	"naive.systems/fwcheck/firmware/checker_integration/checkrule"
)

// DeleteExceedResults keeps at most max-report-num violations of every rule
// that sets the option. The list must already be in report order.
func DeleteExceedResults(allResults *results.ViolationsList, checkRules []checkrule.CheckRule) *results.ViolationsList {
	maxReportNumMap := make(map[string]int)
	for _, checkRule := range checkRules {
		if checkRule.JSONOptions.MaxReportNum != nil {
			maxReportNumMap[checkRule.RuleID()] = *checkRule.JSONOptions.MaxReportNum
		}
	}
	if len(maxReportNumMap) == 0 {
		return allResults
	}
	reported := make(map[string]int)
	kept := make([]*results.Violation, 0, len(allResults.Violations))
	dropped := 0
	for _, v := range allResults.Violations {
		maxReportNum, exist := maxReportNumMap[v.Rule]
		if !exist || reported[v.Rule] < maxReportNum {
			reported[v.Rule]++
			kept = append(kept, v)
			continue
		}
		dropped++
	}
	if dropped > 0 {
		glog.Infof("%d violations dropped by max-report-num", dropped)
	}
	allResults.Violations = kept
	return allResults
}

// KeepChangedLines drops violations on lines the patch did not add.
func KeepChangedLines(allResults *results.ViolationsList, patch *diff.Patch) *results.ViolationsList {
	kept := make([]*results.Violation, 0, len(allResults.Violations))
	for _, v := range allResults.Violations {
		if patch.Added(v.Path, v.LineNumber) {
			kept = append(kept, v)
		}
	}
	glog.Infof("%d of %d violations are on changed lines", len(kept), len(allResults.Violations))
	allResults.Violations = kept
	return allResults
}
