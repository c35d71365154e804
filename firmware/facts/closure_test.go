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

package facts_test

import (
	"reflect"
	"testing"

	"gopkg.in/yaml.v2"
	"naive.systems/fwcheck/cruleslib/testlib"
	"naive.systems/fwcheck/firmware/checker_integration/cppcheck"
	"naive.systems/fwcheck/firmware/facts"
)

var (
	irqNames = []string{"callback", "Handler"}
	pioAPIs  = []facts.RegistrationAPI{{Name: "pio_handler_set", Arg: -1}}
)

func TestInterruptClosure(t *testing.T) {
	for _, testCase := range []struct {
		name     string
		register func(f *testlib.Body)
		expected []string
	}{
		{"name match only", func(f *testlib.Body) {}, []string{"button_callback"}},
		{"last argument", func(f *testlib.Body) {
			f.Call("pio_handler_set", "PIOA", "ID_PIOA", "on_tick")
		}, []string{"button_callback", "on_tick"}},
		{"address of last argument", func(f *testlib.Body) {
			f.Call("pio_handler_set", "PIOA", "ID_PIOA", "&on_tick")
		}, []string{"button_callback", "on_tick"}},
		{"wrong position", func(f *testlib.Body) {
			f.Call("pio_handler_set", "on_tick", "ID_PIOA", "0")
		}, []string{"button_callback"}},
		{"other api", func(f *testlib.Body) {
			f.Call("register_something", "PIOA", "ID_PIOA", "on_tick")
		}, []string{"button_callback"}},
		{"registered twice and named", func(f *testlib.Body) {
			f.Call("pio_handler_set", "PIOA", "ID_PIOA", "button_callback")
			f.Call("pio_handler_set", "PIOB", "ID_PIOB", "&on_tick")
			f.Call("pio_handler_set", "PIOC", "ID_PIOC", "on_tick")
		}, []string{"button_callback", "on_tick"}},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			b := testlib.NewBuilder("main.c")
			b.Declare("pio_handler_set")
			b.Function("button_callback", nil)
			b.Function("on_tick", nil)
			b.Function("main", testCase.register)
			cfg := b.Build()
			closure := facts.InterruptClosure(cfg, irqNames, pioAPIs)
			if got := closure.Names(cfg); !reflect.DeepEqual(got, testCase.expected) {
				t.Errorf("unexpected closure parsed: %v. expected: %v.", got, testCase.expected)
			}
		})
	}
}

func TestInterruptClosureResolvesByName(t *testing.T) {
	b := testlib.NewBuilder("main.c")
	b.Function("on_tick", nil)
	var call cppcheck.Ref
	b.Function("main", func(f *testlib.Body) {
		call = f.Call("pio_handler_set", "PIOA", "ID_PIOA", "on_tick")
	})
	cfg := b.Build()
	args := facts.CallArguments(cfg, call)
	if len(args) != 3 {
		t.Fatalf("unexpected argument count parsed: %v. expected: %v.", len(args), 3)
	}
	// cppcheck leaves function pointers without a function reference
	// when the callee is declared after use.
	cfg.Tokens[args[2]].Function = cppcheck.NoRef
	closure := facts.InterruptClosure(cfg, nil, pioAPIs)
	if got := closure.Names(cfg); !reflect.DeepEqual(got, []string{"on_tick"}) {
		t.Errorf("unexpected closure parsed: %v. expected: [on_tick].", got)
	}

	// An ambiguous name is not resolved.
	b2 := testlib.NewBuilder("main.c")
	b2.Function("main", func(f *testlib.Body) {
		f.Call("pio_handler_set", "PIOA", "ID_PIOA", "unknown_fn")
	})
	cfg2 := b2.Build()
	if got := facts.InterruptClosure(cfg2, nil, pioAPIs); got.Len() != 0 {
		t.Errorf("unexpected closure for an unresolved callback: %v", got.Names(cfg2))
	}
}

func TestIsFunctionCall(t *testing.T) {
	b := testlib.NewBuilder("main.c")
	flag := b.Global("int", "flag")
	var call cppcheck.Ref
	b.Function("main", func(f *testlib.Body) {
		call = f.Call("delay_ms", "10")
		f.Loop("while", func(f *testlib.Body) { f.Assign(flag) })
	})
	cfg := b.Build()
	calls := []string{}
	for i := range cfg.Tokens {
		if facts.IsFunctionCall(cfg, cppcheck.Ref(i)) {
			calls = append(calls, facts.CallName(cfg, cppcheck.Ref(i)))
		}
	}
	if !reflect.DeepEqual(calls, []string{"delay_ms"}) {
		t.Errorf("unexpected calls parsed: %v. expected: [delay_ms].", calls)
	}
	if !facts.IsCallToken(cfg, cfg.Token(call).Previous) {
		t.Errorf("expected the callee name to be a call token")
	}
}

func TestTaskFunctions(t *testing.T) {
	b := testlib.NewBuilder("main.c")
	b.Declare("xTaskCreate")
	b.Function("vBlink", nil)
	b.Function("sensor_task", nil)
	b.Function("task_callback", nil)
	b.Function("main", func(f *testlib.Body) {
		f.Call("xTaskCreate", "vBlink", "\"blink\"", "128", "NULL", "1", "NULL")
		f.Call("xTaskCreate", "task_callback", "\"cb\"", "128", "NULL", "1", "NULL")
	})
	cfg := b.Build()
	closure := facts.InterruptClosure(cfg, irqNames, pioAPIs)
	tasks := facts.TaskFunctions(cfg, []string{"task_", "_task"},
		[]facts.RegistrationAPI{{Name: "xTaskCreate", Arg: 0}}, closure)
	if got := tasks.Names(cfg); !reflect.DeepEqual(got, []string{"sensor_task", "vBlink"}) {
		t.Errorf("unexpected tasks parsed: %v. expected: %v.", got, []string{"sensor_task", "vBlink"})
	}
}

func TestRegistrationAPIUnmarshal(t *testing.T) {
	var apis []facts.RegistrationAPI
	err := yaml.Unmarshal([]byte("- pio_handler_set\n- {name: xTaskCreate, arg: 0}\n- name: NVIC_SetVector\n"), &apis)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []facts.RegistrationAPI{{"pio_handler_set", -1}, {"xTaskCreate", 0}, {"NVIC_SetVector", -1}}
	if !reflect.DeepEqual(apis, expected) {
		t.Errorf("unexpected apis parsed: %v. expected: %v.", apis, expected)
	}
}
