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

package analyzer

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"naive.systems/fwcheck/cruleslib/options"
	"naive.systems/fwcheck/cruleslib/stats"
	"naive.systems/fwcheck/cruleslib/testlib"
	"naive.systems/fwcheck/firmware/checker_integration/checkrule"
)

// counter is written by the timer interrupt and read by main.
const timerDump = `<?xml version="1.0"?>
<dumps>
  <rawtokens>
    <file index="0" name="src/timer.c"/>
  </rawtokens>
  <dump cfg="">
    <tokenlist>
      <token id="a1" fileIndex="0" linenr="1" column="1" str="int" scope="s1" type="name"/>
      <token id="a2" fileIndex="0" linenr="1" column="5" str="counter" scope="s1" type="name" varId="1" variable="v1"/>
      <token id="a3" fileIndex="0" linenr="1" column="12" str=";" scope="s1"/>
      <token id="a4" fileIndex="0" linenr="2" column="1" str="void" scope="s1" type="name"/>
      <token id="a5" fileIndex="0" linenr="2" column="6" str="Handler_timer" scope="s1" type="name" function="f1"/>
      <token id="a6" fileIndex="0" linenr="2" column="19" str="(" scope="s1" link="a7"/>
      <token id="a7" fileIndex="0" linenr="2" column="20" str=")" scope="s1" link="a6"/>
      <token id="a8" fileIndex="0" linenr="2" column="22" str="{" scope="s2" link="a13"/>
      <token id="a9" fileIndex="0" linenr="3" column="3" str="counter" scope="s2" type="name" variable="v1" astParent="a10"/>
      <token id="a10" fileIndex="0" linenr="3" column="10" str="++" scope="s2" type="op" astOperand1="a9"/>
      <token id="a11" fileIndex="0" linenr="3" column="12" str=";" scope="s2"/>
      <token id="a12" fileIndex="0" linenr="4" column="3" str="counter" scope="s2" type="name" variable="v1" astParent="a14"/>
      <token id="a14" fileIndex="0" linenr="4" column="11" str="=" scope="s2" type="op" isAssignmentOp="true" astOperand1="a12" astOperand2="a15"/>
      <token id="a15" fileIndex="0" linenr="4" column="13" str="0" scope="s2" type="number" astParent="a14"/>
      <token id="a16" fileIndex="0" linenr="4" column="14" str=";" scope="s2"/>
      <token id="a13" fileIndex="0" linenr="5" column="1" str="}" scope="s2" link="a8"/>
    </tokenlist>
    <scopes>
      <scope id="s1" type="Global" bodyStart="0" bodyEnd="0">
        <functionList>
          <function id="f1" token="a5" tokenDef="a5" name="Handler_timer" type="Function"/>
        </functionList>
      </scope>
      <scope id="s2" type="Function" className="Handler_timer" bodyStart="a8" bodyEnd="a13" nestedIn="s1" function="f1"/>
    </scopes>
    <variables>
      <var id="v1" nameToken="a2" typeStartToken="a1" typeEndToken="a1" access="Global" scope="s1" isVolatile="false"/>
    </variables>
  </dump>
</dumps>
`

func writeDump(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunCounterScenario(t *testing.T) {
	root := t.TempDir()
	dump := writeDump(t, root, "board/timer.c.dump", timerDump)
	broken := writeDump(t, root, "board/broken.c.dump", "<dumps><dump")
	config := checkrule.DefaultRuleConfig()
	rules, err := SelectRules(config, "", false, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	envOpts := &options.EnvOptions{Lang: "en", NumWorkers: 2}
	runStats := stats.NewRunStats()
	list, errs := Run(rules, []string{dump, broken}, root, envOpts, config, runStats)
	got, err := testlib.ToTestResult(list, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"1_1 src/timer.c:3 variable counter in function Handler_timer"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("unexpected violations: %v. expected: %v.", got, expected)
	}
	v := list.Violations[0]
	if v.Repo != "board" || v.DumpFile != dump || v.Alias != "volatile-isr-global" || v.Severity != "warning" {
		t.Errorf("unexpected violation fields: %+v", v)
	}
	if errs[0] != nil || errs[1] == nil {
		t.Errorf("unexpected task errors: %v", errs)
	}
	if runStats.Dumps != 1 || len(runStats.FailedDumps) != 1 || runStats.FailedDumps[0] != broken {
		t.Errorf("unexpected run stats: %+v", runStats)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	root := t.TempDir()
	dump := writeDump(t, root, "timer.c.dump", timerDump)
	config := checkrule.DefaultRuleConfig()
	rules, err := SelectRules(config, "", true, []string{"isr-call-limit"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	envOpts := &options.EnvOptions{Lang: "en", NumWorkers: 1, RTOS: true}
	first, _ := Run(rules, []string{dump}, root, envOpts, config, stats.NewRunStats())
	second, _ := Run(rules, []string{dump}, root, envOpts, config, stats.NewRunStats())
	if !reflect.DeepEqual(first, second) {
		t.Errorf("unexpected difference between runs: %v and %v", first.Violations, second.Violations)
	}
}

func TestSelectRules(t *testing.T) {
	config := checkrule.DefaultRuleConfig()
	checkRules := filepath.Join(t.TempDir(), "check_rules")
	content := "# isr rules\nfirmware/rule_2_1 {\"max-report-num\": 3}\nfirmware/rule_1_1\n"
	if err := os.WriteFile(checkRules, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	for _, testCase := range []struct {
		name       string
		checkRules string
		rtos       bool
		enable     []string
		disable    []string
		expected   []string
	}{
		{"default", "", false, nil, nil, DefaultRules},
		{"rtos", "", true, nil, nil, RTOSRules},
		{"enable by alias", "", false, []string{"isr-call-limit"}, nil,
			[]string{"1_1", "1_2", "1_3", "2_1", "2_2", "2_3", "2_4", "2_5", "3_1", "3_2"}},
		{"disable by id and full name", "", false, nil, []string{"1_3", "firmware/rule_3_2"},
			[]string{"1_1", "1_2", "2_1", "2_2", "2_3", "2_4", "3_1"}},
		{"check rules file", checkRules, false, nil, nil, []string{"1_1", "2_1"}},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			rules, err := SelectRules(config, testCase.checkRules, testCase.rtos, testCase.enable, testCase.disable)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := RuleIDs(rules); !reflect.DeepEqual(got, testCase.expected) {
				t.Errorf("unexpected rules selected: %v. expected: %v.", got, testCase.expected)
			}
		})
	}

	rules, _ := SelectRules(config, checkRules, false, nil, nil)
	if limit := rules[1].JSONOptions.MaxReportNum; limit == nil || *limit != 3 {
		t.Errorf("unexpected options of %s: %v", rules[1].Name, rules[1].JSONOptions.ToString())
	}
}

func TestSelectRulesSharedCheckRules(t *testing.T) {
	checkRules := filepath.Join(t.TempDir(), "check_rules")
	content := "misra_c_2012/rule_8_4\n" +
		"firmware/rule_2_1 {\"max-report-num\": 3}\n" +
		"no-delay-in-isr {\"severity\": \"error\"}\n" +
		"googlecpp/g1149\n"
	if err := os.WriteFile(checkRules, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	rules, err := SelectRules(checkrule.DefaultRuleConfig(), checkRules, false, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := RuleIDs(rules); !reflect.DeepEqual(got, []string{"2_1"}) {
		t.Fatalf("unexpected rules selected: %v. expected: %v.", got, []string{"2_1"})
	}
	opts := rules[0].JSONOptions
	if opts.MaxReportNum == nil || *opts.MaxReportNum != 3 || opts.Severity == nil || *opts.Severity != "error" {
		t.Errorf("unexpected merged options: %v", opts.ToString())
	}
	if rules[0].Name != "firmware/rule_2_1" {
		t.Errorf("unexpected rule name: %v", rules[0].Name)
	}
}

func TestSelectRulesUnknownName(t *testing.T) {
	_, err := SelectRules(checkrule.DefaultRuleConfig(), "", false, []string{"no-such-rule"}, nil)
	var cerr *checkrule.ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNeedsTasks(t *testing.T) {
	if NeedsTasks([]checkrule.CheckRule{{Name: FullName("1_1")}}, false) {
		t.Errorf("unexpected task derivation without RTOS rules")
	}
	if !NeedsTasks([]checkrule.CheckRule{{Name: FullName("4_3")}}, false) {
		t.Errorf("expected task derivation for rule 4_3")
	}
}
