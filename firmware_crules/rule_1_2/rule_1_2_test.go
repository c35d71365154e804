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

package rule_1_2

import (
	"reflect"
	"testing"

	"naive.systems/fwcheck/cruleslib/testlib"
)

func TestAnalyze(t *testing.T) {
	b := testlib.NewBuilder("main.c")
	b.Function("TC0_Handler", func(f *testlib.Body) {
		tick := f.Local("int", "tick", testlib.Volatile)
		f.Assign(tick)
	})
	b.Function("main", func(f *testlib.Body) {
		count := f.Local("int", "count", testlib.Volatile)
		f.Assign(count)
		f.Assign(count)
		plain := f.Local("int", "plain")
		f.Assign(plain)
		unused := f.Local("int", "unused", testlib.Volatile)
		_ = unused
	})
	opts := testlib.NewOption()
	got, err := testlib.ToTestResult(Analyze(testlib.NewUnit(b, opts), opts))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"1_2 main.c:7 variable count in function main"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("unexpected violations: %v. expected: %v.", got, expected)
	}
}
