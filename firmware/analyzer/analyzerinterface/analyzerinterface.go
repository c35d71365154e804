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
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/hhatto/gocloc"
	"github.com/zeebo/blake3"
	"golang.org/x/text/message"
	"naive.systems/fwcheck/analyzer/results"
	"naive.systems/fwcheck/atomic"
	"naive.systems/fwcheck/firmware/utils"
	"naive.systems/fwcheck/rulesets"
)

type ArrayFlags []string

func (i *ArrayFlags) String() string {
	return "array flags"
}

func (i *ArrayFlags) Set(value string) error {
	*i = append(*i, value)
	return nil
}

func CreateLogDir(logDir string) error {
	return os.MkdirAll(logDir, os.ModePerm)
}

func CreateResultDir(resultsDir string) error {
	dir, err := os.Stat(resultsDir)
	if err != nil {
		if os.IsNotExist(err) {
			err = os.MkdirAll(resultsDir, os.ModePerm)
			return err
		} else {
			return err
		}
	}

	if !dir.IsDir() {
		// a file exists instead of dir
		return os.ErrExist
	}

	return nil
}

// CleanResultDir removes the output of an earlier run. Metadata files and
// the log directory are kept.
func CleanResultDir(resultsDir string) error {
	filesToIgnore := []string{}
	// add *.nsa_metadata to filesToIgnore
	err := filepath.Walk(resultsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".nsa_metadata") {
			filesToIgnore = append(filesToIgnore, filepath.Base(path))
		}
		return nil
	})
	if err != nil {
		glog.Errorf("filepath.Walk: %v", err)
	}

	logDirFlag := flag.Lookup("log_dir")
	if logDirFlag != nil && logDirFlag.Value.String() != "" {
		cleanedLogDir := filepath.Clean(logDirFlag.Value.String())
		cleanedResultsDir := filepath.Clean(resultsDir)
		// If logDir is in resultsDir, we shall keep it.
		if strings.HasPrefix(cleanedLogDir, cleanedResultsDir) {
			relPath, err := filepath.Rel(cleanedResultsDir, cleanedLogDir)
			if err != nil {
				glog.Errorf("filepath.Rel: %v", err)
			}
			ignoredName := strings.Split(relPath, string(filepath.Separator))[0] // ignore the whole subfolder.
			glog.Infof("clean cache: ignoring log dir: %s", ignoredName)
			filesToIgnore = append(filesToIgnore, ignoredName)
		}
	}

	return utils.CleanCache(resultsDir, filesToIgnore)
}

func MatchIgnoreDirPatterns(ignoreDirPatterns []string, filePath string) (bool, error) {
	matched := false
	var err error
	for _, ignoreDirPattern := range ignoreDirPatterns {
		matched, err = doublestar.Match(ignoreDirPattern, filePath)
		if err != nil {
			return matched, fmt.Errorf("malformed ignore_dir pattern %s", ignoreDirPattern)
		}
		if matched {
			glog.V(1).Infof("Source file %s ignored due to pattern %s", filePath, ignoreDirPattern)
			break
		}
	}
	return matched, nil
}

// ProcessIgnoreDir drops violations whose path matches an ignore pattern.
// A malformed pattern is logged and filters nothing.
func ProcessIgnoreDir(allResults *results.ViolationsList, ignoreDirPatterns []string) *results.ViolationsList {
	for _, ignoreDirPattern := range ignoreDirPatterns {
		kept := []*results.Violation{}
		for _, v := range allResults.Violations {
			matched, err := doublestar.Match(ignoreDirPattern, v.Path)
			if err != nil {
				glog.Error("malformed ignore_dir pattern ", ignoreDirPattern)
				kept = allResults.Violations
				break
			}
			if matched {
				glog.Infof("Result in path %s ignored due to pattern %s", v.Path, ignoreDirPattern)
			} else {
				kept = append(kept, v)
			}
		}
		allResults.Violations = kept
	}
	return allResults
}

func AddID(allResults *results.ViolationsList) {
	for _, v := range allResults.Violations {
		id, err := uuid.NewRandom()
		if err != nil {
			glog.Warningf("uuid.NewRandom: %v", err)
			continue
		}
		v.Id = id.String()
	}
}

// lineHash hashes the trimmed text of a source line.
func lineHash(content string) string {
	sum := blake3.Sum256([]byte(strings.TrimSpace(content)))
	return hex.EncodeToString(sum[:8])
}

// AddCodeLineHash fills CodeLineHash from the reported source line.
// Violations whose file cannot be read keep an empty hash.
func AddCodeLineHash(allResults *results.ViolationsList, charset string) {
	start := time.Now()
	type lineKey struct {
		path string
		line int
	}
	cache := map[lineKey]string{}
	for _, v := range allResults.Violations {
		key := lineKey{v.Path, v.LineNumber}
		if hash, ok := cache[key]; ok {
			v.CodeLineHash = hash
			continue
		}
		content, err := rulesets.GetLine(v.Path, v.LineNumber, charset)
		if err != nil {
			glog.V(1).Infof("GetLine('%s', %d): %v", v.Path, v.LineNumber, err)
			cache[key] = ""
			continue
		}
		cache[key] = lineHash(content)
		v.CodeLineHash = cache[key]
	}
	glog.V(1).Infof("spent %s on adding CodeLineHash for all results", time.Since(start))
}

// convert path from relative path to absolute path
// remove results of which the path not in src dir
func FormatResultPath(allResults *results.ViolationsList, srcDir string) *results.ViolationsList {
	if srcDir == "" {
		return allResults
	}
	formatted := &results.ViolationsList{}
	for _, v := range allResults.Violations {
		if !filepath.IsAbs(v.Path) {
			v.Path = filepath.Join(srcDir, v.Path)
		}
		if strings.HasPrefix(v.Path, srcDir) {
			formatted.Add(v)
		} else {
			glog.V(1).Infof("result in %s is outside %s", v.Path, srcDir)
		}
	}
	return formatted
}

func WriteJsonResults(allResults *results.ViolationsList, resultsPath string) error {
	return atomic.WriteJSON(resultsPath, allResults)
}

// PrintResults prints one block per violation, sorted by place.
func PrintResults(allResults *results.ViolationsList, printCounts bool, printer *message.Printer) {
	allResults.Sort()
	ruleCountMap := map[string]int{}
	for _, v := range allResults.Violations {
		fmt.Printf("%s:%d: [RULE %s VIOLATION] %s\n\t%s\n\n", v.Path, v.LineNumber, v.Rule, v.Location, v.Message)
		ruleCountMap[v.Rule]++
	}
	if printCounts {
		// add a group by output to show the occurred times of a rule in project.
		rules := make([]string, 0, len(ruleCountMap))
		for rule := range ruleCountMap {
			rules = append(rules, rule)
		}
		sort.Strings(rules)
		for _, rule := range rules {
			fmt.Println(printer.Sprintf("count: %d rule: %s", ruleCountMap[rule], rule))
		}
	}
}

func CountLinesUnderDir(workingDirs []string, countLangs []string, ignoreDirPatterns []string) (int, error) {
	clocOpts := gocloc.NewClocOptions()
	languages := gocloc.NewDefinedLanguages()
	for _, lang := range countLangs {
		if _, exists := languages.Langs[lang]; exists {
			clocOpts.IncludeLangs[lang] = struct{}{}
		}
	}
	processor := gocloc.NewProcessor(languages, clocOpts)
	result, err := processor.Analyze(workingDirs)
	if err != nil {
		glog.Errorf("gocloc fail: %v", err)
		return 0, err
	}
	sum := 0
	for _, file := range result.Files {
		matched, err := MatchIgnoreDirPatterns(ignoreDirPatterns, file.Name)
		if err != nil {
			glog.Error(err)
			continue
		}
		if matched {
			continue
		}
		sum += int(file.Code)
	}

	return sum, nil
}
