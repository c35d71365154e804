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

package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/golang/glog"
	"naive.systems/fwcheck/analyzer/results"
	"naive.systems/fwcheck/atomic"
)

// analysis stages
const (
	GD int = iota // Dump generation
	AC            // Analysis check
	END
)

type Progress struct {
	StageID   int       `json:"stage_id"`
	DoneRatio string    `json:"done_ratio"`
	StartedAt time.Time `json:"started_at"`
}

type SeverityCount struct {
	Error       int `json:"error"`
	Warning     int `json:"warning"`
	Style       int `json:"style"`
	Performance int `json:"performance"`
	Portability int `json:"portability"`
	Information int `json:"information"`
	Unknown     int `json:"unknown"`
}

// RunStats collects what happened while analyzing the dump files. It is
// safe for concurrent use.
type RunStats struct {
	mu             sync.Mutex
	Dumps          int        `json:"dumps"`
	Configurations int        `json:"configurations"`
	FailedDumps    []string   `json:"failed_dumps"`
	Cycles         [][]string `json:"cycles"`
}

func NewRunStats() *RunStats {
	return &RunStats{FailedDumps: []string{}, Cycles: [][]string{}}
}

func (s *RunStats) AddDump(configurations int, cycles [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Dumps++
	s.Configurations += configurations
	s.Cycles = append(s.Cycles, cycles...)
}

func (s *RunStats) AddFailure(dumpPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FailedDumps = append(s.FailedDumps, dumpPath)
}

func (s *RunStats) CycleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Cycles)
}

func (s *RunStats) Write(resultDir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := filepath.Join(resultDir, "run_stats.nsa_metadata")
	err := atomic.WriteJSON(path, s)
	if err != nil {
		glog.Errorf("failed to write to file %s: %v", path, err)
	}
}

func WriteLOC(resultDir string, linesCounter int) {
	path := filepath.Join(resultDir, "loc.nsa_metadata")
	err := atomic.Write(path, []byte(strconv.Itoa(linesCounter)))
	if err != nil {
		glog.Errorf("failed to write to file %s: %v", path, err)
	}
}

func WriteProgress(resultDir string, stageID int, doneRatio string, startedAt time.Time) {
	if resultDir == "" {
		return
	}
	// skip writing it if resultDir does not exist
	_, err := os.Stat(resultDir)
	if os.IsNotExist(err) {
		glog.Warningf("result dir %s does not exist", resultDir)
		return
	}
	path := filepath.Join(resultDir, "progress.nsa_metadata")
	progress, err := json.Marshal(Progress{StageID: stageID, DoneRatio: doneRatio, StartedAt: startedAt})
	if err != nil {
		glog.Errorf("failed to marshal json stageID %d and doneRatio %s: %v", stageID, doneRatio, err)
		return
	}
	err = atomic.Write(path, progress)
	if err != nil {
		glog.Errorf("failed to write to file %s: %v", path, err)
	}
}

func AccumulateBySeverity(cnt *SeverityCount, severity string, violationID string) {
	switch severity {
	case "error":
		cnt.Error++
	case "warning":
		cnt.Warning++
	case "style":
		cnt.Style++
	case "performance":
		cnt.Performance++
	case "portability":
		cnt.Portability++
	case "information":
		cnt.Information++
	default:
		glog.Warningf("undefined severity of violation %s", violationID)
		cnt.Unknown++
	}
}

func CountSeverity(list *results.ViolationsList) SeverityCount {
	var cnt SeverityCount
	for _, v := range list.Violations {
		AccumulateBySeverity(&cnt, v.Severity, v.Id)
	}
	return cnt
}

func CountSeverityAndWrite(list *results.ViolationsList, resultDir string) {
	statsFile := filepath.Join(resultDir, "severity_stats.nsa_metadata")
	err := atomic.WriteJSON(statsFile, CountSeverity(list))
	if err != nil {
		glog.Errorf("failed to write to file %s: %v", statsFile, err)
	}
}

// CountRules returns the number of violations per rule id.
func CountRules(list *results.ViolationsList) map[string]int {
	counts := make(map[string]int)
	for _, v := range list.Violations {
		counts[v.Rule]++
	}
	return counts
}

func CountRulesAndWrite(list *results.ViolationsList, resultDir string) {
	statsFile := filepath.Join(resultDir, "rule_stats.nsa_metadata")
	err := atomic.WriteJSON(statsFile, CountRules(list))
	if err != nil {
		glog.Errorf("failed to write to file %s: %v", statsFile, err)
	}
}
