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
	"bytes"
	"encoding/json"
	"io"
	"sort"

	"naive.systems/fwcheck/analyzer/results"
	"naive.systems/fwcheck/atomic"
	"naive.systems/fwcheck/rulesets"
)

const sarifSchema = "https://json.schemastore.org/sarif-2.1.0.json"

type SARIF struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []SARIFRun `json:"runs"`
}

type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

type SARIFDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []SARIFRule `json:"rules"`
}

type SARIFRule struct {
	Id               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription SARIFMessage `json:"shortDescription"`
	FullDescription  SARIFMessage `json:"fullDescription"`
}

type SARIFMessage struct {
	Text string `json:"text"`
}

type SARIFResult struct {
	RuleId              string            `json:"ruleId"`
	RuleIndex           int               `json:"ruleIndex"`
	Level               string            `json:"level"`
	Message             SARIFMessage      `json:"message"`
	Locations           []SARIFLocation   `json:"locations"`
	PartialFingerprints map[string]string `json:"partialFingerprints,omitempty"`
	Properties          map[string]string `json:"properties,omitempty"`
}

type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           SARIFRegion           `json:"region"`
}

type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

type SARIFRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
}

// sarifLevel maps a cppcheck severity to a SARIF level.
func sarifLevel(severity string) string {
	switch severity {
	case "error":
		return "error"
	case "warning", "portability":
		return "warning"
	default:
		return "note"
	}
}

func toSARIF(allResults *results.ViolationsList, toolName, version string) *SARIF {
	rules := map[string]SARIFRule{}
	for _, v := range allResults.Violations {
		if _, ok := rules[v.Rule]; !ok {
			rules[v.Rule] = SARIFRule{
				Id:               v.Rule,
				Name:             v.Alias,
				ShortDescription: SARIFMessage{Text: rulesets.FullName(v.Rule)},
				FullDescription:  SARIFMessage{Text: v.Message},
			}
		}
	}
	ids := make([]string, 0, len(rules))
	for id := range rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	index := map[string]int{}
	driver := SARIFDriver{Name: toolName, Version: version, Rules: []SARIFRule{}}
	for i, id := range ids {
		index[id] = i
		driver.Rules = append(driver.Rules, rules[id])
	}

	run := SARIFRun{Tool: SARIFTool{Driver: driver}, Results: []SARIFResult{}}
	for _, v := range allResults.Violations {
		result := SARIFResult{
			RuleId:    v.Rule,
			RuleIndex: index[v.Rule],
			Level:     sarifLevel(v.Severity),
			Message:   SARIFMessage{Text: v.Location + ": " + v.Message},
			Locations: []SARIFLocation{{
				PhysicalLocation: SARIFPhysicalLocation{
					ArtifactLocation: SARIFArtifactLocation{URI: v.Path},
					Region:           SARIFRegion{StartLine: v.LineNumber, StartColumn: v.Column},
				},
			}},
		}
		if v.Fingerprint != "" {
			result.PartialFingerprints = map[string]string{"fwcheck/v1": v.Fingerprint}
		}
		if v.Id != "" {
			result.Properties = map[string]string{"id": v.Id}
		}
		run.Results = append(run.Results, result)
	}
	return &SARIF{Version: "2.1.0", Schema: sarifSchema, Runs: []SARIFRun{run}}
}

func WriteSARIF(w io.Writer, allResults *results.ViolationsList, toolName, version string) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(toSARIF(allResults, toolName, version))
}

func WriteSARIFFile(allResults *results.ViolationsList, path, toolName, version string) error {
	var buf bytes.Buffer
	if err := WriteSARIF(&buf, allResults, toolName, version); err != nil {
		return err
	}
	return atomic.Write(path, buf.Bytes())
}
