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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"naive.systems/fwcheck/analyzer/results"
)

// Suppression silences one rule on every source line with the given
// content hash, wherever that line moves.
type Suppression struct {
	Rule    string `json:"rule"`
	Content string `json:"content"`
	Reason  string `json:"reason,omitempty"`
}

type SuppressionsList struct {
	Suppressions []Suppression `json:"suppressions"`
}

type suppressionAsKey struct {
	content string
	rule    string
}

func visit(files *[]string) filepath.WalkFunc {
	return func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".nsa_suppression" {
			return nil
		}
		*files = append(*files, path)
		return nil
	}
}

func getSuppressionMap(suppressionFiles []string) (map[suppressionAsKey]Suppression, error) {
	suppressionMap := make(map[suppressionAsKey]Suppression)
	for _, suppressionFile := range suppressionFiles {
		bytes, err := os.ReadFile(suppressionFile)
		if err != nil {
			return nil, err
		}
		suppressions := &SuppressionsList{}
		err = json.Unmarshal(bytes, suppressions)
		if err != nil {
			return nil, fmt.Errorf("invalid suppression file %s: %v", suppressionFile, err)
		}
		for _, suppression := range suppressions.Suppressions {
			key := suppressionAsKey{content: suppression.Content, rule: suppression.Rule}
			suppressionMap[key] = suppression
		}
	}
	return suppressionMap, nil
}

// ProcessSuppression drops violations matched by the *.nsa_suppression
// files under suppressionDir. A suppression names the rule by id or alias.
// CodeLineHash must be filled first.
func ProcessSuppression(allResults *results.ViolationsList, suppressionDir string) (*results.ViolationsList, error) {
	var suppressionFiles []string
	err := filepath.Walk(suppressionDir, visit(&suppressionFiles))
	if err != nil {
		return allResults, err
	}
	suppressionMap, err := getSuppressionMap(suppressionFiles)
	if err != nil {
		return allResults, err
	}
	countMap := make(map[string]int)
	kept := []*results.Violation{}
	for _, v := range allResults.Violations {
		_, byID := suppressionMap[suppressionAsKey{content: v.CodeLineHash, rule: v.Rule}]
		_, byAlias := suppressionMap[suppressionAsKey{content: v.CodeLineHash, rule: v.Alias}]
		if v.CodeLineHash != "" && (byID || byAlias) {
			countMap[v.Rule]++
		} else {
			kept = append(kept, v)
		}
	}
	for rule, count := range countMap {
		glog.Infof("%d violations of %s are filtered out with suppression", count, rule)
	}
	allResults.Violations = kept
	return allResults, nil
}
