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
	"fmt"
	"path/filepath"
	"runtime"

	"naive.systems/fwcheck/cruleslib/basic"
	"naive.systems/fwcheck/cruleslib/i18n"
	"naive.systems/fwcheck/cruleslib/stats"
	"naive.systems/fwcheck/firmware/analyzer/analyzerinterface"
	"naive.systems/fwcheck/rulesets"
)

// ValidateOptions rejects flag combinations that cannot work before any
// analysis starts.
func ValidateOptions(sharedOptions *SharedOptions) error {
	if !i18n.IsSupported(sharedOptions.GetLang()) {
		return fmt.Errorf("unsupported language: %s", sharedOptions.GetLang())
	}
	if err := rulesets.ValidateCharset(sharedOptions.GetSourceCharset()); err != nil {
		return err
	}
	if sharedOptions.GetCreateBaseline() && sharedOptions.GetBaseline() == "" {
		return fmt.Errorf("-create_baseline needs -baseline")
	}
	if sharedOptions.GetJobs() < 0 {
		return fmt.Errorf("invalid number of jobs: %d", sharedOptions.GetJobs())
	}
	return nil
}

// ResolvePaths makes a relative -src_dir or -diff_file absolute under
// workDir. Both must exist.
func ResolvePaths(sharedOptions *SharedOptions, workDir string) error {
	if srcDir := sharedOptions.GetSrcDir(); srcDir != "" {
		path, err := basic.ConvertRelativePathToAbsolute(workDir, srcDir)
		if err != nil {
			return fmt.Errorf("invalid -src_dir %s: %v", srcDir, err)
		}
		sharedOptions.SetSrcDir(filepath.Clean(path))
	}
	if diffFile := sharedOptions.GetDiffFile(); diffFile != "" {
		path, err := basic.ConvertRelativePathToAbsolute(workDir, diffFile)
		if err != nil {
			return fmt.Errorf("invalid -diff_file %s: %v", diffFile, err)
		}
		sharedOptions.SetDiffFile(path)
	}
	return nil
}

func ParseNumWorkers(sharedOptions *SharedOptions) int32 {
	numWorkers := int32(sharedOptions.GetJobs())
	if numWorkers <= 0 {
		numWorkers = int32(runtime.NumCPU())
	}
	return numWorkers
}

// CheckCodeLines counts the C and header lines under sourceDirs and
// records the total in the results dir.
func CheckCodeLines(sourceDirs []string, sharedOptions *SharedOptions) (int, error) {
	printer := i18n.GetPrinter(sharedOptions.GetLang())
	clines, err := analyzerinterface.CountLinesUnderDir(sourceDirs, []string{"C"}, sharedOptions.GetIgnoreDirPatterns())
	if err != nil {
		return 0, fmt.Errorf("failed to check c lines: %v", err)
	}
	headerlines, err := analyzerinterface.CountLinesUnderDir(sourceDirs, []string{"C Header"}, sharedOptions.GetIgnoreDirPatterns())
	if err != nil {
		return clines, fmt.Errorf("failed to check header lines: %v", err)
	}
	if sharedOptions.GetCheckProgress() {
		basic.PrintfWithTimeStamp(printer.Sprintf("%d lines of C code", clines))
		basic.PrintfWithTimeStamp(printer.Sprintf("%d lines of headers", headerlines))
	}
	if sharedOptions.GetResultsDir() != "" {
		stats.WriteLOC(sharedOptions.GetResultsDir(), clines+headerlines)
	}
	return clines + headerlines, nil
}
