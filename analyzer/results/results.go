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

package results

import (
	"encoding/hex"
	"sort"
	"strings"

	"github.com/zeebo/blake3"
)

// Violation is one reported rule hit.
type Violation struct {
	Id           string `json:"id,omitempty"`
	Rule         string `json:"rule"`
	Alias        string `json:"alias"`
	Severity     string `json:"severity"`
	Repo         string `json:"repo,omitempty"`
	DumpFile     string `json:"dump_file,omitempty"`
	Path         string `json:"path"`
	LineNumber   int    `json:"line_number"`
	Column       int    `json:"column,omitempty"`
	Function     string `json:"function,omitempty"`
	Variable     string `json:"variable,omitempty"`
	Location     string `json:"location"`
	Message      string `json:"message"`
	CodeLineHash string `json:"code_line_hash,omitempty"`
	Fingerprint  string `json:"fingerprint,omitempty"`
}

// ComputeFingerprint hashes the parts of a violation that survive
// unrelated edits to the file. The line number is left out on purpose.
func (v *Violation) ComputeFingerprint() string {
	data := strings.Join([]string{v.Rule, v.Path, v.Function, v.Variable, v.Location}, "\x00")
	hash := blake3.Sum256([]byte(data))
	return hex.EncodeToString(hash[:16])
}

type ViolationsList struct {
	Violations []*Violation `json:"violations"`
}

func (l *ViolationsList) Add(v *Violation) {
	l.Violations = append(l.Violations, v)
}

func (l *ViolationsList) AddList(other *ViolationsList) {
	if other == nil {
		return
	}
	l.Violations = append(l.Violations, other.Violations...)
}

func (l *ViolationsList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Violations)
}

// Sort orders violations by path, line, rule, column and message.
func (l *ViolationsList) Sort() {
	vs := l.Violations
	sort.SliceStable(vs, func(i, j int) bool {
		x, y := vs[i], vs[j]
		if x.Path != y.Path {
			return x.Path < y.Path
		}
		if x.LineNumber != y.LineNumber {
			return x.LineNumber < y.LineNumber
		}
		if x.Rule != y.Rule {
			return x.Rule < y.Rule
		}
		if x.Column != y.Column {
			return x.Column < y.Column
		}
		return x.Message < y.Message
	})
}

type violationBlood struct {
	rule       string
	path       string
	lineNumber int
	column     int
	location   string
}

// ViolationsSet is an alternative to ViolationsList. When Add() is called,
// it checks violationBlood to identify unique violations. It preserves the
// adding order.
type ViolationsSet struct {
	// You can manipulate ViolationsList beyond the limits.
	ViolationsList
	stored map[violationBlood]struct{}
}

func NewViolationsSet() *ViolationsSet {
	set := ViolationsSet{}
	set.stored = make(map[violationBlood]struct{})
	return &set
}

func NewViolationsSetFromList(list *ViolationsList) *ViolationsSet {
	set := NewViolationsSet()
	set.AddList(list)
	return set
}

// Add returns false when an equal violation was added before.
func (vs *ViolationsSet) Add(v *Violation) bool {
	blood := violationBlood{
		rule:       v.Rule,
		path:       v.Path,
		lineNumber: v.LineNumber,
		column:     v.Column,
		location:   v.Location,
	}
	if _, reported := vs.stored[blood]; reported {
		return false
	}
	vs.stored[blood] = struct{}{}
	vs.Violations = append(vs.Violations, v)
	return true
}

func (vs *ViolationsSet) AddList(list *ViolationsList) {
	if list == nil {
		return
	}
	for _, v := range list.Violations {
		vs.Add(v)
	}
}
