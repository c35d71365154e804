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
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/message"
	"naive.systems/fwcheck/analyzer/results"
)

// PrintTable renders violations as an aligned text table.
func PrintTable(w io.Writer, allResults *results.ViolationsList, printer *message.Printer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	headers := []string{"Repo", "File", "Line", "Rule", "Location", "Message"}
	for i, h := range headers {
		headers[i] = printer.Sprintf(h)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, v := range allResults.Violations {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n", v.Repo, v.Path, v.LineNumber, v.Rule, v.Location, v.Message)
	}
	return tw.Flush()
}
