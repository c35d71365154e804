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

package analyzer

import (
	"fmt"

	"github.com/golang/glog"
	"golang.org/x/exp/slices"
	"naive.systems/fwcheck/analyzer/results"
	"naive.systems/fwcheck/cruleslib/options"
	"naive.systems/fwcheck/cruleslib/runner"
	"naive.systems/fwcheck/cruleslib/stats"
	"naive.systems/fwcheck/firmware/checker_integration/checkrule"
	"naive.systems/fwcheck/firmware/checker_integration/cppcheck"
	"naive.systems/fwcheck/firmware/facts"
	"naive.systems/fwcheck/firmware_crules/rule_1_1"
	"naive.systems/fwcheck/firmware_crules/rule_1_2"
	"naive.systems/fwcheck/firmware_crules/rule_1_3"
	"naive.systems/fwcheck/firmware_crules/rule_2_1"
	"naive.systems/fwcheck/firmware_crules/rule_2_2"
	"naive.systems/fwcheck/firmware_crules/rule_2_3"
	"naive.systems/fwcheck/firmware_crules/rule_2_4"
	"naive.systems/fwcheck/firmware_crules/rule_2_5"
	"naive.systems/fwcheck/firmware_crules/rule_3_1"
	"naive.systems/fwcheck/firmware_crules/rule_3_2"
	"naive.systems/fwcheck/firmware_crules/rule_4_1"
	"naive.systems/fwcheck/firmware_crules/rule_4_2"
	"naive.systems/fwcheck/firmware_crules/rule_4_3"
	"naive.systems/fwcheck/firmware_crules/rule_4_4"
)

// Catalog is the evaluation order of the rules.
var Catalog = []string{"1_1", "1_2", "1_3", "2_1", "2_2", "2_3", "2_4", "2_5", "3_1", "3_2", "4_1", "4_2", "4_3", "4_4"}

var (
	DefaultRules = []string{"1_1", "1_2", "1_3", "2_1", "2_2", "2_3", "2_4", "3_1", "3_2"}
	RTOSRules    = []string{"1_1", "1_2", "2_1", "2_2", "2_3", "2_4", "3_1", "3_2", "4_1", "4_2", "4_3", "4_4"}
)

type analyzeFunc func(unit *facts.Unit, opts *options.CheckOptions) (*results.ViolationsList, error)

type boundRule struct {
	name    string
	opts    options.CheckOptions
	analyze analyzeFunc
}

func FullName(id string) string {
	return checkrule.RulePrefix + "rule_" + id
}

// SelectRules decides which rules run. A check_rules file replaces the
// built-in set, and its lines for other rulesets are skipped. -enable and
// -disable are applied on top. Every name must
// resolve to a known rule.
func SelectRules(config *checkrule.RuleConfig, checkRulesPath string, rtos bool, enable, disable []string) ([]checkrule.CheckRule, error) {
	cerr := &checkrule.ConfigurationError{Source: config.Source}
	selected := map[string]checkrule.CheckRule{}
	if checkRulesPath != "" {
		checkRules, err := checkrule.ReadCheckRules(checkRulesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read check rules: %v", err)
		}
		for _, rule := range checkrule.FilterCheckRules(checkRules, checkrule.RulePrefix) {
			id, ok := config.FindRule(rule.Name)
			if !ok || !slices.Contains(Catalog, id) {
				cerr.Invalid = append(cerr.Invalid, fmt.Sprintf("unknown rule %s in %s", rule.Name, checkRulesPath))
				continue
			}
			// A rule listed twice keeps the options of both lines, later
			// lines winning.
			if previous, ok := selected[id]; ok {
				previous.JSONOptions.Update(rule.JSONOptions)
				rule = previous
			}
			rule.Name = FullName(id)
			selected[id] = rule
		}
	} else {
		ids := DefaultRules
		if rtos {
			ids = RTOSRules
		}
		for _, id := range ids {
			selected[id] = checkrule.CheckRule{Name: FullName(id)}
		}
	}
	resolve := func(name string) (string, bool) {
		id, ok := config.FindRule(name)
		if !ok || !slices.Contains(Catalog, id) {
			cerr.Invalid = append(cerr.Invalid, "unknown rule "+name)
			return "", false
		}
		return id, true
	}
	for _, name := range enable {
		if id, ok := resolve(name); ok {
			if _, present := selected[id]; !present {
				selected[id] = checkrule.CheckRule{Name: FullName(id)}
			}
		}
	}
	for _, name := range disable {
		if id, ok := resolve(name); ok {
			delete(selected, id)
		}
	}
	if len(cerr.Invalid) > 0 {
		return nil, cerr
	}
	rules := []checkrule.CheckRule{}
	for _, id := range Catalog {
		if rule, ok := selected[id]; ok {
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

// RuleIDs lists the ids of rules, in order.
func RuleIDs(rules []checkrule.CheckRule) []string {
	ids := make([]string, 0, len(rules))
	for _, rule := range rules {
		ids = append(ids, rule.RuleID())
	}
	return ids
}

// NeedsTasks reports whether the RTOS task set has to be derived.
func NeedsTasks(rules []checkrule.CheckRule, rtos bool) bool {
	if rtos {
		return true
	}
	ids := RuleIDs(rules)
	return slices.Contains(ids, "4_2") || slices.Contains(ids, "4_3")
}

func bindRules(rules []checkrule.CheckRule, envOpts *options.EnvOptions, config *checkrule.RuleConfig) []boundRule {
	bound := []boundRule{}
	for _, rule := range rules {
		ruleOptions := options.MakeCheckOptions(&rule.JSONOptions, envOpts, config)
		x := func(analyze analyzeFunc) {
			bound = append(bound, boundRule{name: rule.Name, opts: ruleOptions, analyze: analyze})
		}
		switch rule.Name {
		case "firmware/rule_1_1":
			x(rule_1_1.Analyze)
		case "firmware/rule_1_2":
			x(rule_1_2.Analyze)
		case "firmware/rule_1_3":
			x(rule_1_3.Analyze)
		case "firmware/rule_2_1":
			x(rule_2_1.Analyze)
		case "firmware/rule_2_2":
			x(rule_2_2.Analyze)
		case "firmware/rule_2_3":
			x(rule_2_3.Analyze)
		case "firmware/rule_2_4":
			x(rule_2_4.Analyze)
		case "firmware/rule_2_5":
			x(rule_2_5.Analyze)
		case "firmware/rule_3_1":
			x(rule_3_1.Analyze)
		case "firmware/rule_3_2":
			x(rule_3_2.Analyze)
		case "firmware/rule_4_1":
			x(rule_4_1.Analyze)
		case "firmware/rule_4_2":
			x(rule_4_2.Analyze)
		case "firmware/rule_4_3":
			x(rule_4_3.Analyze)
		case "firmware/rule_4_4":
			x(rule_4_4.Analyze)
		default:
			glog.Errorf("Unknown rule name: %s", rule.Name)
		}
	}
	return bound
}

// analyzeDump runs the bound rules over every configuration of one dump.
func analyzeDump(path, repo string, bound []boundRule, settings facts.Settings, runStats *stats.RunStats) (*results.ViolationsList, error) {
	dump, err := cppcheck.LoadDump(path)
	if err != nil {
		runStats.AddFailure(path)
		return nil, fmt.Errorf("failed to load dump: %v", err)
	}
	list := &results.ViolationsList{}
	cycles := [][]string{}
	for _, cfg := range dump.Configurations {
		unit := facts.NewUnit(dump, repo, cfg, settings)
		cycles = append(cycles, unit.Cycles...)
		for i := range bound {
			violations, err := bound[i].analyze(unit, &bound[i].opts)
			if err != nil {
				runStats.AddFailure(path)
				return nil, fmt.Errorf("%s failed on configuration %q: %v", bound[i].name, cfg.Name, err)
			}
			list.AddList(violations)
		}
	}
	runStats.AddDump(len(dump.Configurations), cycles)
	return list, nil
}

// Run analyzes the dumps in parallel, one task per dump file. root is the
// path the dumps were discovered under and names their repo.
func Run(rules []checkrule.CheckRule, dumps []string, root string, envOpts *options.EnvOptions, config *checkrule.RuleConfig, runStats *stats.RunStats) (*results.ViolationsList, []error) {
	bound := bindRules(rules, envOpts, config)
	settings := config.Settings(NeedsTasks(rules, envOpts.RTOS))
	paraTaskRunner := runner.NewParaTaskRunner(envOpts.NumWorkers, len(dumps), envOpts.CheckProgress, envOpts.Lang, envOpts.ResultsDir)
	for i, dump := range dumps {
		exiting_results, exiting_errors := paraTaskRunner.CheckSignalExiting()
		if exiting_results != nil {
			return exiting_results, exiting_errors
		}
		repo := cppcheck.RepoName(root, dump)
		paraTaskRunner.AddTask(runner.AnalyzerTask{Id: i, Name: dump, Analyze: func(name string) (*results.ViolationsList, error) {
			return analyzeDump(name, repo, bound, settings, runStats)
		}})
	}
	return paraTaskRunner.CollectResultsAndErrors()
}
