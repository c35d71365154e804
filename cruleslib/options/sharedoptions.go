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
	"flag"

	"naive.systems/fwcheck/firmware/analyzer/analyzerinterface"
)

type SharedOptions struct {
	Baseline          *string
	CheckProgress     *bool
	CheckRules        *string
	CppcheckArgs      *string
	CppcheckBin       *string
	CreateBaseline    *bool
	DebugMode         *bool
	DiffFile          *string
	DisableRules      analyzerinterface.ArrayFlags
	EnableRules       analyzerinterface.ArrayFlags
	GenerateDumps     *bool
	IgnoreDirPatterns analyzerinterface.ArrayFlags
	Jobs              *int
	Lang              *string
	OutputFile        *string
	PrintTable        *bool
	ResultsDir        *string
	RTOS              *bool
	RuleConfig        *string
	SarifOutput       *string
	ShortText         *bool
	ShowResults       *bool
	ShowResultsCount  *bool
	SourceCharset     *string
	SrcDir            *string
	SuppressionDir    *string
	Timeout           *int
	XMLOutput         *string
}

func (s SharedOptions) GetBaseline() string {
	return *s.Baseline
}

func (s SharedOptions) GetCheckProgress() bool {
	return *s.CheckProgress
}

func (s SharedOptions) GetCheckRules() string {
	return *s.CheckRules
}

func (s SharedOptions) GetCppcheckArgs() string {
	return *s.CppcheckArgs
}

func (s SharedOptions) GetCppcheckBin() string {
	return *s.CppcheckBin
}

func (s SharedOptions) GetCreateBaseline() bool {
	return *s.CreateBaseline
}

func (s SharedOptions) GetDebugMode() bool {
	return *s.DebugMode
}

func (s SharedOptions) GetDiffFile() string {
	return *s.DiffFile
}

func (s SharedOptions) GetDisableRules() analyzerinterface.ArrayFlags {
	return s.DisableRules
}

func (s SharedOptions) GetEnableRules() analyzerinterface.ArrayFlags {
	return s.EnableRules
}

func (s SharedOptions) GetGenerateDumps() bool {
	return *s.GenerateDumps
}

func (s SharedOptions) GetIgnoreDirPatterns() analyzerinterface.ArrayFlags {
	return s.IgnoreDirPatterns
}

func (s SharedOptions) GetJobs() int {
	return *s.Jobs
}

func (s SharedOptions) GetLang() string {
	return *s.Lang
}

func (s SharedOptions) GetOutputFile() string {
	return *s.OutputFile
}

func (s SharedOptions) GetPrintTable() bool {
	return *s.PrintTable
}

func (s SharedOptions) GetResultsDir() string {
	return *s.ResultsDir
}

func (s SharedOptions) GetRTOS() bool {
	return *s.RTOS
}

func (s SharedOptions) GetRuleConfig() string {
	return *s.RuleConfig
}

func (s SharedOptions) GetSarifOutput() string {
	return *s.SarifOutput
}

func (s SharedOptions) GetShortText() bool {
	return *s.ShortText
}

func (s SharedOptions) GetShowResults() bool {
	return *s.ShowResults
}

func (s SharedOptions) GetShowResultsCount() bool {
	return *s.ShowResultsCount
}

func (s SharedOptions) GetSourceCharset() string {
	return *s.SourceCharset
}

func (s SharedOptions) GetSrcDir() string {
	return *s.SrcDir
}

func (s SharedOptions) GetSuppressionDir() string {
	return *s.SuppressionDir
}

func (s SharedOptions) GetTimeout() int {
	return *s.Timeout
}

func (s SharedOptions) GetXMLOutput() string {
	return *s.XMLOutput
}

func (s SharedOptions) SetSrcDir(srcdir string) {
	*s.SrcDir = srcdir
}

func (s SharedOptions) SetDiffFile(diffFile string) {
	*s.DiffFile = diffFile
}

type DefaultOptionValues struct {
	Baseline          string
	CheckProgress     bool
	CheckRules        string
	CppcheckArgs      string
	CppcheckBin       string
	CreateBaseline    bool
	DebugMode         bool
	DiffFile          string
	GenerateDumps     bool
	IgnoreDirPatterns analyzerinterface.ArrayFlags
	Jobs              int
	Lang              string
	OutputFile        string
	PrintTable        bool
	ResultsDir        string
	RTOS              bool
	RuleConfig        string
	SarifOutput       string
	ShortText         bool
	ShowResults       bool
	ShowResultsCount  bool
	SourceCharset     string
	SrcDir            string
	SuppressionDir    string
	Timeout           int
	XMLOutput         string
}

var Defaults = DefaultOptionValues{
	Baseline:          "",
	CheckProgress:     false,
	CheckRules:        "",
	CppcheckArgs:      "",
	CppcheckBin:       "cppcheck",
	CreateBaseline:    false,
	DebugMode:         false,
	DiffFile:          "",
	GenerateDumps:     false,
	IgnoreDirPatterns: []string{},
	Jobs:              0,
	Lang:              "en",
	OutputFile:        "",
	PrintTable:        false,
	ResultsDir:        "",
	RTOS:              false,
	RuleConfig:        "",
	SarifOutput:       "",
	ShortText:         false,
	ShowResults:       true,
	ShowResultsCount:  false,
	SourceCharset:     "utf8",
	SrcDir:            "",
	SuppressionDir:    "",
	Timeout:           10,
	XMLOutput:         "",
}

func NewSharedOptions() *SharedOptions {
	return NewSharedOptionsFromFlagSet(flag.CommandLine)
}

func NewSharedOptionsFromFlagSet(fs *flag.FlagSet) *SharedOptions {
	option := &SharedOptions{}

	option.Baseline = fs.String("baseline", Defaults.Baseline, "Baseline file of known violations that will not be reported")
	option.CheckProgress = fs.Bool("check_progress", Defaults.CheckProgress, "Show the checking progress")
	option.CheckRules = fs.String("check_rules", Defaults.CheckRules, "File selecting the rules to check, one 'firmware/rule_N_M {json options}' per line")
	option.CppcheckArgs = fs.String("cppcheck_args", Defaults.CppcheckArgs, "Extra arguments passed to cppcheck when generating dumps")
	option.CppcheckBin = fs.String("cppcheck_bin", Defaults.CppcheckBin, "Cppcheck binary location")
	option.CreateBaseline = fs.Bool("create_baseline", Defaults.CreateBaseline, "Write the current violations to the baseline file instead of filtering with it")
	option.DebugMode = fs.Bool("debug_mode", Defaults.DebugMode, "Whether to display error information")
	option.DiffFile = fs.String("diff_file", Defaults.DiffFile, "Unified diff (git diff output); only violations on lines it adds are reported")
	option.GenerateDumps = fs.Bool("generate_dumps", Defaults.GenerateDumps, "Run cppcheck --dump on the C sources of the input directory first")
	option.Jobs = fs.Int("jobs", Defaults.Jobs, "Number of dump files analyzed in parallel, 0 means the number of CPUs")
	option.Lang = fs.String("lang", Defaults.Lang, "Language of progress and summary messages, en or zh")
	option.OutputFile = fs.String("output_file", Defaults.OutputFile, "Write the violations as CSV to this file")
	option.PrintTable = fs.Bool("print_table", Defaults.PrintTable, "Print the violations as a table")
	option.ResultsDir = fs.String("results_dir", Defaults.ResultsDir, "Absolute path to the directory of results files")
	option.RTOS = fs.Bool("rtos", Defaults.RTOS, "Check the RTOS rule set")
	option.RuleConfig = fs.String("rule_config", Defaults.RuleConfig, "YAML rule configuration replacing the built-in one")
	option.SarifOutput = fs.String("sarif_output", Defaults.SarifOutput, "Write the violations as SARIF to this file")
	option.ShortText = fs.Bool("short_text", Defaults.ShortText, "Use the short rule texts in messages")
	option.ShowResults = fs.Bool("show_results", Defaults.ShowResults, "Show results after the analysis")
	option.ShowResultsCount = fs.Bool("show_results_count", Defaults.ShowResultsCount, "Show results count group by rules after the analysis")
	option.SourceCharset = fs.String("source_charset", Defaults.SourceCharset, "Charset of the source files, used for code snippets in report.json")
	option.SrcDir = fs.String("src_dir", Defaults.SrcDir, "Directory the source paths in the dumps are relative to")
	option.SuppressionDir = fs.String("suppression_dir", Defaults.SuppressionDir, "Directory of .nsa_suppression files")
	option.Timeout = fs.Int("timeout", Defaults.Timeout, "Minutes of timeout for generating one dump file")
	option.XMLOutput = fs.String("xml_output", Defaults.XMLOutput, "Write the violations as cppcheck XML to this file")

	option.IgnoreDirPatterns = append(analyzerinterface.ArrayFlags{}, Defaults.IgnoreDirPatterns...)
	fs.Var(&option.IgnoreDirPatterns, "ignore_dir", "Doublestar pattern of paths that will be ignored")
	fs.Var(&option.EnableRules, "enable", "Enable a rule by id, alias or full name. Repeatable")
	fs.Var(&option.DisableRules, "disable", "Disable a rule by id, alias or full name. Repeatable")

	return option
}
