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

package rule_4_1

import (
	"reflect"
	"testing"

	"naive.systems/fwcheck/cruleslib/testlib"
)

func TestAnalyze(t *testing.T) {
	b := testlib.NewBuilder("main.c")
	b.Function("TC0_Handler", func(f *testlib.Body) {
		f.Call("xQueueSend", "queue", "&sample", "0")
		f.Call("xQueueSendFromISR", "queue", "&sample", "0")
	})
	b.Function("sensor_task", func(f *testlib.Body) {
		f.Call("xQueueSend", "queue", "&sample", "0")
	})
	opts := testlib.NewOption()
	got, err := testlib.ToTestResult(Analyze(testlib.NewUnit(b, opts), opts))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"4_1 main.c:2 call to xQueueSend inside ISR TC0_Handler, use xQueueSendFromISR"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("unexpected violations: %v. expected: %v.", got, expected)
	}
}

func TestAnalyzeExpandedMacros(t *testing.T) {
	b := testlib.NewBuilder("main.c")
	b.Function("TC0_Handler", func(f *testlib.Body) {
		f.Call("xQueueGenericSend", "queue", "&sample", "0", "0")
		f.Call("xQueueGenericSendFromISR", "queue", "&sample", "0", "0")
		f.Call("xTaskGenericNotify", "task", "0", "1", "2", "0")
	})
	opts := testlib.NewOption()
	got, err := testlib.ToTestResult(Analyze(testlib.NewUnit(b, opts), opts))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{
		"4_1 main.c:2 call to xQueueGenericSend inside ISR TC0_Handler, use xQueueGenericSendFromISR",
		"4_1 main.c:4 call to xTaskGenericNotify inside ISR TC0_Handler, use xTaskGenericNotifyFromISR",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("unexpected violations: %v. expected: %v.", got, expected)
	}
}
