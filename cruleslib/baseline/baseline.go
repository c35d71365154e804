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

package baseline

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/golang/glog"
	"naive.systems/fwcheck/analyzer/results"
	"naive.systems/fwcheck/atomic"
)

// Result is a known violation. It is matched by fingerprint only, so it
// survives edits that move the reported line.
type Result struct {
	Rule        string `json:"rule"`
	Path        string `json:"path"`
	LineNumber  int    `json:"lineNumber"`
	Location    string `json:"location"`
	Fingerprint string `json:"fingerprint"`
}

type Baseline struct {
	Results    Locations `json:"results"`
	CommitHash string    `json:"commitHash,omitempty"`
}

// GetHeadCommitHash returns the HEAD commit of workingDir. It is only
// recorded for reference.
func GetHeadCommitHash(workingDir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = workingDir
	out, err := cmd.CombinedOutput()
	strOut := string(out)
	if err != nil {
		return "", fmt.Errorf("git rev-parse HEAD: %v: %s", err, strings.TrimSpace(strOut))
	}
	return strings.TrimSuffix(strOut, "\n"), nil
}

func CreateBaselineFile(allResults *results.ViolationsList, baselinePath, workingDir string) error {
	var baseline Baseline
	if workingDir != "" {
		commitHash, err := GetHeadCommitHash(workingDir)
		if err != nil {
			glog.V(1).Infof("no commit recorded in baseline: %v", err)
		}
		baseline.CommitHash = commitHash
	}
	baseline.Results = Locations{}
	for _, v := range allResults.Violations {
		fingerprint := v.Fingerprint
		if fingerprint == "" {
			fingerprint = v.ComputeFingerprint()
		}
		baseline.Results = append(baseline.Results, Result{
			Rule:        v.Rule,
			Path:        v.Path,
			LineNumber:  v.LineNumber,
			Location:    v.Location,
			Fingerprint: fingerprint,
		})
	}
	sort.Stable(baseline.Results)
	err := atomic.WriteJSON(baselinePath, &baseline)
	if err != nil {
		return fmt.Errorf("cannot write %s: %v", baselinePath, err)
	}
	return nil
}

func GetBaseline(baselinePath string) (Baseline, error) {
	var baseline Baseline
	content, err := os.ReadFile(baselinePath)
	if err != nil {
		return baseline, fmt.Errorf("cannot read %s: %v", baselinePath, err)
	}
	err = json.Unmarshal(content, &baseline)
	if err != nil {
		return baseline, fmt.Errorf("cannot parse %s: %v", baselinePath, err)
	}
	return baseline, nil
}

// RemoveBaselineResults drops the violations already known in baseline and
// returns how many were dropped. A fingerprint listed n times hides at most
// n violations, so a newly duplicated violation is still reported.
func RemoveBaselineResults(allResults *results.ViolationsList, baseline Baseline) (*results.ViolationsList, int) {
	known := make(map[string]int)
	for _, r := range baseline.Results {
		known[r.Fingerprint]++
	}
	kept := make([]*results.Violation, 0, len(allResults.Violations))
	removed := 0
	for _, v := range allResults.Violations {
		fingerprint := v.Fingerprint
		if fingerprint == "" {
			fingerprint = v.ComputeFingerprint()
		}
		if known[fingerprint] > 0 {
			known[fingerprint]--
			removed++
			continue
		}
		kept = append(kept, v)
	}
	allResults.Violations = kept
	return allResults, removed
}

// FilterWithBaselineFile is RemoveBaselineResults on the baseline stored at
// baselinePath.
func FilterWithBaselineFile(allResults *results.ViolationsList, baselinePath string) (*results.ViolationsList, int, error) {
	baseline, err := GetBaseline(baselinePath)
	if err != nil {
		return allResults, 0, err
	}
	filtered, removed := RemoveBaselineResults(allResults, baseline)
	return filtered, removed, nil
}
