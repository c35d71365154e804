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

package options

import (
	"naive.systems/fwcheck/firmware/analyzer/analyzerinterface"
	"naive.systems/fwcheck/firmware/checker_integration/checkrule"
)

// CheckOptions is what a single rule sees. RuleConfig is shared by all
// rules and must not be modified.
type CheckOptions struct {
	JsonOption checkrule.JSONOption
	EnvOption  EnvOptions
	RuleConfig *checkrule.RuleConfig
}

type EnvOptions struct {
	ResultsDir        string
	SrcDir            string
	LogDir            string
	IgnoreDirPatterns analyzerinterface.ArrayFlags
	CheckProgress     bool
	Debug             bool
	NumWorkers        int32
	Lang              string
	ShortText         bool
	RTOS              bool
}

func NewEnvOptionsFromShared(logDir string, sharedOptions *SharedOptions, numWorkers int32) *EnvOptions {
	return &EnvOptions{
		ResultsDir:        sharedOptions.GetResultsDir(),
		SrcDir:            sharedOptions.GetSrcDir(),
		LogDir:            logDir,
		IgnoreDirPatterns: sharedOptions.GetIgnoreDirPatterns(),
		CheckProgress:     sharedOptions.GetCheckProgress(),
		Debug:             sharedOptions.GetDebugMode(),
		NumWorkers:        numWorkers,
		Lang:              sharedOptions.GetLang(),
		ShortText:         sharedOptions.GetShortText(),
		RTOS:              sharedOptions.GetRTOS(),
	}
}

func MakeCheckOptions(jsonOption *checkrule.JSONOption, envOption *EnvOptions, ruleConfig *checkrule.RuleConfig) CheckOptions {
	return CheckOptions{
		JsonOption: *jsonOption,
		EnvOption:  *envOption,
		RuleConfig: ruleConfig,
	}
}

// Severity is the check_rules override if there is one, else the
// configured severity of the rule.
func (o *CheckOptions) Severity(ruleID string) string {
	if o.JsonOption.Severity != nil {
		return *o.JsonOption.Severity
	}
	return o.RuleConfig.Rule(ruleID).Severity
}

func (o *CheckOptions) Message(ruleID string) string {
	return o.RuleConfig.Message(ruleID, o.EnvOption.ShortText)
}
