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

package rule_2_3

import (
	"reflect"
	"testing"

	"naive.systems/fwcheck/cruleslib/testlib"
)

func TestAnalyze(t *testing.T) {
	b := testlib.NewBuilder("main.c")
	b.Function("UART_Handler", func(f *testlib.Body) {
		f.Call("printf", "fmt")
		f.Call("sprintf", "buf", "fmt")
	})
	b.Function("main", func(f *testlib.Body) {
		f.Call("printf", "fmt")
	})
	opts := testlib.NewOption()
	got, err := testlib.ToTestResult(Analyze(testlib.NewUnit(b, opts), opts))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// sprintf contains printf as well, but each token is reported once.
	expected := []string{
		"2_3 main.c:2 function call to printf inside ISR UART_Handler",
		"2_3 main.c:3 function call to sprintf inside ISR UART_Handler",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("unexpected violations: %v. expected: %v.", got, expected)
	}
}
