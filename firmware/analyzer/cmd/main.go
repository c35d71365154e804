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

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/glog"
	"naive.systems/fwcheck/analyzer/results"
	"naive.systems/fwcheck/cruleslib/baseline"
	"naive.systems/fwcheck/cruleslib/basic"
	"naive.systems/fwcheck/cruleslib/filter"
	"naive.systems/fwcheck/cruleslib/i18n"
	"naive.systems/fwcheck/cruleslib/options"
	"naive.systems/fwcheck/cruleslib/runner"
	"naive.systems/fwcheck/cruleslib/stats"
	"naive.systems/fwcheck/diff"
	"naive.systems/fwcheck/firmware/analyzer/analyzerinterface"
	"naive.systems/fwcheck/firmware/checker_integration/checkrule"
	"naive.systems/fwcheck/firmware/checker_integration/cppcheck"
	"naive.systems/fwcheck/firmware/utils"
	"naive.systems/fwcheck/firmware_crules/analyzer"
)

const toolName = "fwcheck"

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <dump file or directory>\n", toolName)
	flag.PrintDefaults()
}

// sourceRoot is where source lines are read from and counted.
func sourceRoot(input, srcDir string) string {
	if srcDir != "" {
		return srcDir
	}
	if info, err := os.Stat(input); err == nil && !info.IsDir() {
		return filepath.Dir(input)
	}
	return input
}

func main() {
	sharedOptions := options.NewSharedOptions()
	flag.Usage = usage
	flag.Parse()
	defer glog.Flush()

	// Do not call any logging functions of glog before this part.
	printer := i18n.GetPrinter(sharedOptions.GetLang())
	resultsDir := sharedOptions.GetResultsDir()

	logDir := flag.Lookup("log_dir")
	if logDir.Value.String() == "" && resultsDir != "" {
		err := flag.Set("log_dir", filepath.Join(resultsDir, "logs"))
		if err != nil {
			glog.Fatalf("failed to set default log_dir: %v", err)
		}
	}
	if logDir.Value.String() != "" {
		err := analyzerinterface.CreateLogDir(logDir.Value.String())
		if err != nil {
			glog.Fatalf("failed to create log dir: %v", err)
		}
	}

	if !sharedOptions.GetDebugMode() {
		err := flag.Set("stderrthreshold", "FATAL")
		if err != nil {
			glog.Fatalf("failed to set default stderrthreshold: %v", err)
		}
	}

	if flag.NArg() != 1 {
		usage()
		glog.Fatalf("expected one dump file or directory, got %d arguments", flag.NArg())
	}
	input := flag.Arg(0)

	err := options.ValidateOptions(sharedOptions)
	if err != nil {
		glog.Fatalf("options.ValidateOptions: %v", err)
	}
	workDir, err := os.Getwd()
	if err != nil {
		glog.Fatalf("failed to get working directory: %v", err)
	}
	err = options.ResolvePaths(sharedOptions, workDir)
	if err != nil {
		glog.Fatalf("options.ResolvePaths: %v", err)
	}
	numWorkers := options.ParseNumWorkers(sharedOptions)
	glog.Info("numWorkers: ", numWorkers)

	if resultsDir != "" {
		err = analyzerinterface.CreateResultDir(resultsDir)
		if err != nil {
			glog.Fatalf("failed to create result dir: %v", err)
		}
		err = analyzerinterface.CleanResultDir(resultsDir)
		if err != nil {
			glog.Errorf("failed to clean log and result dir: %v", err)
		}
	}

	ruleConfig, err := checkrule.LoadRuleConfig(sharedOptions.GetRuleConfig())
	if err != nil {
		glog.Fatal(err)
	}
	checkRules, err := analyzer.SelectRules(
		ruleConfig,
		sharedOptions.GetCheckRules(),
		sharedOptions.GetRTOS(),
		sharedOptions.GetEnableRules(),
		sharedOptions.GetDisableRules(),
	)
	if err != nil {
		glog.Fatal(err)
	}
	err = ruleConfig.Validate(analyzer.RuleIDs(checkRules))
	if err != nil {
		glog.Fatal(err)
	}
	glog.Infof("enabled rules: %v", analyzer.RuleIDs(checkRules))

	start := time.Now()
	ignorePatterns := []string(sharedOptions.GetIgnoreDirPatterns())

	if sharedOptions.GetGenerateDumps() {
		sources, err := cppcheck.FindSourceFiles(input, ignorePatterns)
		if err != nil {
			glog.Fatalf("failed to find source files: %v", err)
		}
		if sharedOptions.GetCheckProgress() {
			basic.PrintfWithTimeStamp(printer.Sprintf("Generating dumps for %d source files", len(sources)))
			stats.WriteProgress(resultsDir, stats.GD, "0%", time.Now())
		}
		_, err = cppcheck.GenerateDumps(sharedOptions.GetCppcheckBin(), sharedOptions.GetCppcheckArgs(), sources, sharedOptions.GetJobs(), sharedOptions.GetTimeout())
		if err != nil {
			glog.Fatalf("failed to generate dumps: %v", err)
		}
	}

	dumps, err := cppcheck.FindDumpFiles(input, ignorePatterns)
	if err != nil {
		glog.Fatalf("failed to find dump files: %v", err)
	}
	if len(dumps) == 0 {
		glog.Warningf("no dump files under %s", input)
		basic.PrintfWithTimeStamp(printer.Sprintf("nothing to analyze in %s", input))
	} else if sharedOptions.GetCheckProgress() {
		basic.PrintfWithTimeStamp(printer.Sprintf("%d dump files found", len(dumps)))
	}

	srcRoot := sourceRoot(input, sharedOptions.GetSrcDir())
	linesOfCode, err := options.CheckCodeLines([]string{srcRoot}, sharedOptions)
	if err != nil {
		glog.Errorf("options.CheckCodeLines: %v", err)
	}

	envOptions := options.NewEnvOptionsFromShared(logDir.Value.String(), sharedOptions, numWorkers)
	runStats := stats.NewRunStats()
	if sharedOptions.GetCheckProgress() {
		stats.WriteProgress(resultsDir, stats.AC, "0%", time.Now())
	}
	violations, errs := analyzer.Run(checkRules, dumps, input, envOptions, ruleConfig, runStats)
	if failed := runner.CountErrors(errs); failed > 0 {
		glog.Errorf("errors occur while analyzing: %v", runner.JoinErrors(errs))
		basic.PrintfWithTimeStamp(printer.Sprintf("%d dump files failed to analyze", failed))
	}
	if cycles := runStats.CycleCount(); cycles > 0 && sharedOptions.GetCheckProgress() {
		basic.PrintfWithTimeStamp(printer.Sprintf("%d recursive call chains found", cycles))
	}

	allResults := &results.NewViolationsSetFromList(violations).ViolationsList
	allResults = analyzerinterface.FormatResultPath(allResults, sharedOptions.GetSrcDir())
	allResults = analyzerinterface.ProcessIgnoreDir(allResults, ignorePatterns)
	if diffFile := sharedOptions.GetDiffFile(); diffFile != "" {
		patch, err := diff.ParseFile(diffFile)
		if err != nil {
			glog.Fatalf("failed to parse %s: %v", diffFile, err)
		}
		allResults = filter.KeepChangedLines(allResults, patch)
	}
	analyzerinterface.AddCodeLineHash(allResults, sharedOptions.GetSourceCharset())
	if suppressionDir := sharedOptions.GetSuppressionDir(); suppressionDir != "" {
		allResults, err = analyzerinterface.ProcessSuppression(allResults, suppressionDir)
		if err != nil {
			glog.Errorf("ProcessSuppression: %v", err)
		}
	}
	allResults = filter.DeleteExceedResults(allResults, checkRules)

	if baselinePath := sharedOptions.GetBaseline(); baselinePath != "" {
		if sharedOptions.GetCreateBaseline() {
			err = baseline.CreateBaselineFile(allResults, baselinePath, srcRoot)
			if err != nil {
				glog.Fatalf("failed to create baseline: %v", err)
			}
			basic.PrintfWithTimeStamp(printer.Sprintf("Baseline written to %s", baselinePath))
		} else {
			var removed int
			allResults, removed, err = baseline.FilterWithBaselineFile(allResults, baselinePath)
			if err != nil {
				glog.Fatalf("failed to apply baseline: %v", err)
			}
			if sharedOptions.GetCheckProgress() {
				basic.PrintfWithTimeStamp(printer.Sprintf("%d violations filtered out by baseline", removed))
			}
		}
	}

	analyzerinterface.AddID(allResults)

	if resultsDir != "" {
		resultsPath := filepath.Join(resultsDir, "results.json")
		err = analyzerinterface.WriteJsonResults(allResults, resultsPath)
		if err != nil {
			glog.Fatal(err)
		}
		// count results by severity and rule and save stats to *.nsa_metadata
		stats.CountSeverityAndWrite(allResults, resultsDir)
		stats.CountRulesAndWrite(allResults, resultsDir)
		runStats.Write(resultsDir)
		err = analyzerinterface.GenerateReport(allResults, linesOfCode, filepath.Join(resultsDir, "report.json"), sharedOptions.GetLang(), sharedOptions.GetSourceCharset())
		if err != nil {
			glog.Errorf("failed to generate report: %v", err)
		}
		glog.Infof("All results have been written to %s (%d in total)", resultsPath, allResults.Len())
	}
	if path := sharedOptions.GetOutputFile(); path != "" {
		err = analyzerinterface.WriteCSVFile(allResults, path)
		if err != nil {
			glog.Fatal(err)
		}
	}
	if path := sharedOptions.GetXMLOutput(); path != "" {
		err = analyzerinterface.WriteXMLFile(allResults, path, version)
		if err != nil {
			glog.Fatal(err)
		}
	}
	if path := sharedOptions.GetSarifOutput(); path != "" {
		err = analyzerinterface.WriteSARIFFile(allResults, path, toolName, version)
		if err != nil {
			glog.Fatal(err)
		}
	}

	if sharedOptions.GetPrintTable() {
		err = analyzerinterface.PrintTable(os.Stdout, allResults, printer)
		if err != nil {
			glog.Errorf("failed to print table: %v", err)
		}
	} else if sharedOptions.GetShowResults() {
		analyzerinterface.PrintResults(allResults, sharedOptions.GetShowResultsCount(), printer)
	}

	if sharedOptions.GetCheckProgress() {
		basic.PrintfWithTimeStamp(printer.Sprintf("Found %d violations", allResults.Len()))
		basic.PrintfWithTimeStamp(printer.Sprintf("Analysis finished [%s]", basic.FormatTimeDuration(time.Since(start))))
		stats.WriteProgress(resultsDir, stats.END, "100%", start)
	}

	glog.Flush()
	os.Exit(utils.IntMin(allResults.Len(), 255))
}
