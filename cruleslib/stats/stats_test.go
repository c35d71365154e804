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
	"reflect"
	"sync"
	"testing"

	"naive.systems/fwcheck/analyzer/results"
)

func TestCountRulesAndSeverity(t *testing.T) {
	list := &results.ViolationsList{Violations: []*results.Violation{
		{Rule: "1_1", Severity: "warning"},
		{Rule: "1_1", Severity: "warning"},
		{Rule: "3_1", Severity: "style"},
		{Rule: "4_1", Severity: "error"},
	}}
	expectedRules := map[string]int{"1_1": 2, "3_1": 1, "4_1": 1}
	if got := CountRules(list); !reflect.DeepEqual(got, expectedRules) {
		t.Errorf("unexpected rule counts parsed: %v. expected: %v.", got, expectedRules)
	}
	expectedSeverity := SeverityCount{Error: 1, Warning: 2, Style: 1}
	if got := CountSeverity(list); got != expectedSeverity {
		t.Errorf("unexpected severity counts parsed: %v. expected: %v.", got, expectedSeverity)
	}

	dir := t.TempDir()
	CountRulesAndWrite(list, dir)
	data, err := os.ReadFile(filepath.Join(dir, "rule_stats.nsa_metadata"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	written := map[string]int{}
	if err := json.Unmarshal(data, &written); err != nil || !reflect.DeepEqual(written, expectedRules) {
		t.Errorf("unexpected rule stats written: %s", data)
	}
}

func TestRunStats(t *testing.T) {
	s := NewRunStats()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i == 3 {
				s.AddDump(2, [][]string{{"ping", "pong"}})
				return
			}
			s.AddDump(1, nil)
		}(i)
	}
	wg.Wait()
	s.AddFailure("broken.c.dump")
	if s.Dumps != 10 || s.Configurations != 11 || s.CycleCount() != 1 || len(s.FailedDumps) != 1 {
		t.Errorf("unexpected stats parsed: %+v", s)
	}
}
