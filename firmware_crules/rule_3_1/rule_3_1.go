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

package rule_3_1

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"naive.systems/fwcheck/analyzer/results"
	"naive.systems/fwcheck/cruleslib/options"
	"naive.systems/fwcheck/cruleslib/runner"
	"naive.systems/fwcheck/firmware/checker_integration/cppcheck"
	"naive.systems/fwcheck/firmware/facts"
)

var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// Canonical normalizes a guard name so that FOO_BAR_H, fooBar.h and
// __foo_bar_h__ compare equal.
func Canonical(name string) string {
	return flatten(camelBoundary.ReplaceAllString(strings.TrimSpace(name), "${1}_${2}"))
}

// flatten lowercases s and turns every run of other characters than
// letters and digits into one underscore, trimmed at both ends. Unlike
// Canonical it keeps camelCase words together: lcdDriver.h is lcddriver_h.
func flatten(s string) string {
	var b strings.Builder
	underscore := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			underscore = false
		} else if !underscore {
			b.WriteRune('_')
			underscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}

// directive splits "#ifndef FOO_H" into its keyword and first argument.
func directive(str string) (string, string) {
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(str), "#"))
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	}
	return fields[0], fields[1]
}

// guardMatches reports whether name is a guard for the file base. Both the
// camelCase split form and the unsplit form of base are accepted, so
// lcdDriver.h may use LCD_DRIVER_H or LCDDRIVER_H.
func guardMatches(name, base string) bool {
	if name == "" {
		return false
	}
	return Canonical(name) == Canonical(base) || strings.EqualFold(flatten(name), flatten(base))
}

// HasGuard checks the directives of one header: #ifndef and #define of the
// same guard derived from the file name first, #endif last.
func HasGuard(header string, directives []cppcheck.Directive) bool {
	if len(directives) < 3 {
		return false
	}
	base := filepath.Base(header)
	keyword, guard := directive(directives[0].Str)
	if keyword != "ifndef" || !guardMatches(guard, base) {
		return false
	}
	keyword, name := directive(directives[1].Str)
	if keyword != "define" || name != guard {
		return false
	}
	keyword, _ = directive(directives[len(directives)-1].Str)
	return keyword == "endif"
}

// headerFiles lists, in order, the header files the configuration has
// directives or tokens from.
func headerFiles(unit *facts.Unit, opts *options.CheckOptions) []string {
	seen := map[string]bool{}
	add := func(file string) {
		if file != "" && opts.RuleConfig.IsHeader(file) {
			seen[file] = true
		}
	}
	for _, d := range unit.Config.Directives {
		add(d.File)
	}
	for i := range unit.Config.Tokens {
		add(unit.Config.Tokens[i].File)
	}
	files := make([]string, 0, len(seen))
	for file := range seen {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}

func Analyze(unit *facts.Unit, opts *options.CheckOptions) (*results.ViolationsList, error) {
	list := &results.ViolationsList{}
	byFile := map[string][]cppcheck.Directive{}
	for _, d := range unit.Config.Directives {
		byFile[d.File] = append(byFile[d.File], d)
	}
	for _, header := range headerFiles(unit, opts) {
		directives := byFile[header]
		if HasGuard(header, directives) {
			continue
		}
		line := 1
		if len(directives) > 0 {
			line = directives[0].Line
		}
		runner.AddViolation(list, unit, opts, "3_1", runner.Site{
			Path:     header,
			Line:     line,
			Location: fmt.Sprintf("no include guard detected in file %s", filepath.Base(header)),
		})
	}
	return list, nil
}
