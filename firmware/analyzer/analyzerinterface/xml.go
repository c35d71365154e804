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
	"encoding/xml"
	"io"

	"naive.systems/fwcheck/analyzer/results"
	"naive.systems/fwcheck/atomic"
)

// The cppcheck results format, version 2, so existing viewers and CI
// plugins for cppcheck can read our output.
type XMLResults struct {
	XMLName  xml.Name    `xml:"results"`
	Version  string      `xml:"version,attr"`
	Cppcheck XMLCppcheck `xml:"cppcheck"`
	Errors   []XMLError  `xml:"errors>error"`
}

type XMLCppcheck struct {
	Version string `xml:"version,attr"`
}

type XMLError struct {
	Id       string        `xml:"id,attr"`
	Severity string        `xml:"severity,attr"`
	Msg      string        `xml:"msg,attr"`
	Verbose  string        `xml:"verbose,attr"`
	Location []XMLLocation `xml:"location"`
}

type XMLLocation struct {
	File   string `xml:"file,attr"`
	Line   int    `xml:"line,attr"`
	Column int    `xml:"column,attr,omitempty"`
	Info   string `xml:"info,attr,omitempty"`
}

func toXMLResults(allResults *results.ViolationsList, version string) *XMLResults {
	doc := &XMLResults{Version: "2", Cppcheck: XMLCppcheck{Version: version}, Errors: []XMLError{}}
	for _, v := range allResults.Violations {
		doc.Errors = append(doc.Errors, XMLError{
			Id:       v.Alias,
			Severity: v.Severity,
			Msg:      v.Message,
			Verbose:  v.Location,
			Location: []XMLLocation{{File: v.Path, Line: v.LineNumber, Column: v.Column, Info: v.Location}},
		})
	}
	return doc
}

func WriteXML(w io.Writer, allResults *results.ViolationsList, version string) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.Encode(toXMLResults(allResults, version)); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func WriteXMLFile(allResults *results.ViolationsList, path, version string) error {
	var buf bytes.Buffer
	if err := WriteXML(&buf, allResults, version); err != nil {
		return err
	}
	return atomic.Write(path, buf.Bytes())
}
