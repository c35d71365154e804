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

package i18n

import "testing"

func TestGetPrinter(t *testing.T) {
	for _, testCase := range []struct {
		lang     string
		expected string
	}{
		{"en", "Found 3 violations"},
		{"zh", "发现 3 个违规"},
		{"fr", "Found 3 violations"},
	} {
		got := GetPrinter(testCase.lang).Sprintf("Found %d violations", 3)
		if got != testCase.expected {
			t.Errorf("unexpected message parsed for %s: %v. expected: %v.", testCase.lang, got, testCase.expected)
		}
	}
}

func TestSeverityLabel(t *testing.T) {
	if got := SeverityLabel("warning", "zh"); got != "警告" {
		t.Errorf("unexpected label parsed: %v", got)
	}
	if got := SeverityLabel("warning", "en"); got != "warning" {
		t.Errorf("unexpected label parsed: %v", got)
	}
}
