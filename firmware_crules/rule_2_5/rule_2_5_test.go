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

package rule_2_5

import (
	"reflect"
	"testing"

	"naive.systems/fwcheck/cruleslib/testlib"
	"naive.systems/fwcheck/firmware/checker_integration/checkrule"
)

func build() *testlib.Builder {
	b := testlib.NewBuilder("main.c")
	b.Function("TC0_Handler", func(f *testlib.Body) {
		f.Call("clear_flag")
		f.Call("read_adc")
		f.Call("push_sample")
	})
	b.Function("TC1_Handler", func(f *testlib.Body) {
		f.Call("clear_flag")
		f.Loop("while", nil)
	})
	return b
}

func TestAnalyze(t *testing.T) {
	config := checkrule.DefaultRuleConfig()
	limit := 2
	config.ISR.MaxCalls = &limit
	opts := testlib.NewOptionWithConfig(config)
	got, err := testlib.ToTestResult(Analyze(testlib.NewUnit(build(), opts), opts))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"2_5 main.c:1 3 function calls inside ISR TC0_Handler, at most 2 allowed"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("unexpected violations: %v. expected: %v.", got, expected)
	}
}

func TestAnalyzeWithoutLimit(t *testing.T) {
	config := checkrule.DefaultRuleConfig()
	config.ISR.MaxCalls = nil
	opts := testlib.NewOptionWithConfig(config)
	list, err := Analyze(testlib.NewUnit(build(), opts), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.Len() != 0 {
		t.Errorf("unexpected violations: %v", list.Violations)
	}
}
