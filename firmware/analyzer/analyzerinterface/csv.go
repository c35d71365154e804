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
	"encoding/csv"
	"io"

	"naive.systems/fwcheck/analyzer/results"
	"naive.systems/fwcheck/atomic"
)

var csvHeader = []string{"repo", "file", "rule", "location", "message"}

// WriteCSV writes a header row and one row per violation.
func WriteCSV(w io.Writer, allResults *results.ViolationsList) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, v := range allResults.Violations {
		row := []string{v.Repo, v.Path, v.Rule, v.Location, v.Message}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func WriteCSVFile(allResults *results.ViolationsList, path string) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, allResults); err != nil {
		return err
	}
	return atomic.Write(path, buf.Bytes())
}
