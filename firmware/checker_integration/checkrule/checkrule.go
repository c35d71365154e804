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

package checkrule

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
)

// RulePrefix is the ruleset part of a full rule name such as
// "firmware/rule_1_1".
const RulePrefix = "firmware/"

type CheckRule struct {
	Name        string
	JSONOptions JSONOption
}

type JSONOption struct {
	Severity     *string `json:"severity,omitempty"`
	MaxReportNum *int    `json:"max-report-num,omitempty"`
}

func MakeCheckRule(name string, jsonOptions string) (*CheckRule, error) {
	checkRule := &CheckRule{Name: name}
	err := json.Unmarshal([]byte(jsonOptions), &checkRule.JSONOptions)
	if err != nil {
		return nil, fmt.Errorf("invalid options of %s: %v", name, err)
	}
	if s := checkRule.JSONOptions.Severity; s != nil && !ValidSeverity[*s] {
		return nil, fmt.Errorf("invalid severity of %s: %s", name, *s)
	}
	return checkRule, nil
}

// RuleID turns "firmware/rule_1_1" into "1_1". Other names are returned
// unchanged.
func (c CheckRule) RuleID() string {
	return strings.TrimPrefix(strings.TrimPrefix(c.Name, RulePrefix), "rule_")
}

func (jsonOption *JSONOption) Update(newOption JSONOption) {
	if newOption.Severity != nil {
		jsonOption.Severity = newOption.Severity
	}
	if newOption.MaxReportNum != nil {
		jsonOption.MaxReportNum = newOption.MaxReportNum
	}
}

func (jsonOption JSONOption) ToString() string {
	res, err := json.Marshal(jsonOption)
	if err != nil {
		glog.Errorf("failed to marshal json option: %v", jsonOption)
	}
	return string(res)
}

// FilterCheckRules drops the rules of other rulesets from a check_rules
// file shared with other analyzers. Names without a ruleset part, such as
// "1_1" or an alias, are kept.
func FilterCheckRules(checkRules []CheckRule, prefix string) []CheckRule {
	var filtered []CheckRule
	for _, rule := range checkRules {
		if strings.HasPrefix(rule.Name, prefix) || !strings.Contains(rule.Name, "/") {
			filtered = append(filtered, rule)
		} else {
			glog.V(1).Infof("skipping %s: not a %s rule", rule.Name, strings.TrimSuffix(prefix, "/"))
		}
	}
	return filtered
}

// ReadCheckRules reads one rule per line, "name {json options}". Blank
// lines and lines starting with # are skipped.
func ReadCheckRules(checkRulesPath string) ([]CheckRule, error) {
	glog.Info("checkRulesPath ", checkRulesPath)
	checkRulesFile, err := os.Open(checkRulesPath)
	if err != nil {
		return nil, err
	}
	defer checkRulesFile.Close()

	scanner := bufio.NewScanner(checkRulesFile)
	checkRules := make([]CheckRule, 0)
	logCheckRules := []string{}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, " ", 2)
		jsonOptions := "{}"
		if len(parts) > 1 {
			jsonOptions = parts[1]
		}
		checkRule, err := MakeCheckRule(parts[0], jsonOptions)
		if err != nil {
			return nil, err
		}
		logCheckRules = append(logCheckRules, line)
		checkRules = append(checkRules, *checkRule)
	}
	err = scanner.Err()
	if err != nil {
		return nil, err
	}
	glog.Infof("check_rules content:\n%s", strings.Join(logCheckRules, "\n"))
	return checkRules, nil
}
