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

package checkrule

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v2"
	"naive.systems/fwcheck/firmware/facts"
)

//go:embed default_rules.yaml
var defaultRuleConfig []byte

var ValidSeverity = map[string]bool{
	"error":       true,
	"warning":     true,
	"style":       true,
	"performance": true,
	"portability": true,
	"information": true,
}

type ISRConfig struct {
	Names            []string                `yaml:"names"`
	RegistrationAPIs []facts.RegistrationAPI `yaml:"registration_apis"`
	MaxCalls         *int                    `yaml:"max_calls"`
}

type ForbiddenConfig struct {
	Delay   []string `yaml:"delay"`
	Display []string `yaml:"display"`
	Print   []string `yaml:"print"`
}

type ExceptionsConfig struct {
	Volatile []string `yaml:"volatile"`
	Globals  []string `yaml:"globals"`
}

type RTOSConfig struct {
	TaskNames      []string                `yaml:"task_names"`
	TaskCreateAPIs []facts.RegistrationAPI `yaml:"task_create_apis"`
	ISRPrimitives  []string                `yaml:"isr_primitives"`
	ISRSuffix      string                  `yaml:"isr_suffix"`
}

type HeaderConfig struct {
	Extensions []string `yaml:"extensions"`
}

type RuleText struct {
	Alias    string   `yaml:"alias"`
	Severity string   `yaml:"severity"`
	Text     []string `yaml:"text"`
}

// RuleConfig is everything the rules read besides the dump. It is loaded
// once and never modified afterwards.
type RuleConfig struct {
	Source     string              `yaml:"-"`
	ISR        ISRConfig           `yaml:"isr"`
	Forbidden  ForbiddenConfig     `yaml:"forbidden"`
	Exceptions ExceptionsConfig    `yaml:"exceptions"`
	RTOS       RTOSConfig          `yaml:"rtos"`
	Header     HeaderConfig        `yaml:"header"`
	Rules      map[string]RuleText `yaml:"rules"`
}

// ConfigurationError lists every key that is missing or malformed.
type ConfigurationError struct {
	Source  string
	Missing []string
	Invalid []string
}

func (e *ConfigurationError) Error() string {
	parts := []string{}
	if len(e.Missing) > 0 {
		parts = append(parts, "missing keys: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid values: "+strings.Join(e.Invalid, ", "))
	}
	return fmt.Sprintf("rule configuration %s: %s", e.Source, strings.Join(parts, "; "))
}

// LoadRuleConfig reads the YAML rule configuration at path, or the built-in
// one when path is empty.
func LoadRuleConfig(path string) (*RuleConfig, error) {
	if path == "" {
		return ParseRuleConfig(defaultRuleConfig, "<default>")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule configuration: %v", err)
	}
	return ParseRuleConfig(data, path)
}

func ParseRuleConfig(data []byte, source string) (*RuleConfig, error) {
	config := &RuleConfig{}
	err := yaml.UnmarshalStrict(data, config)
	if err != nil {
		return nil, &ConfigurationError{Source: source, Invalid: []string{err.Error()}}
	}
	config.Source = source
	return config, nil
}

func DefaultRuleConfig() *RuleConfig {
	config, err := LoadRuleConfig("")
	if err != nil {
		panic(fmt.Sprintf("built-in rule configuration is broken: %v", err))
	}
	return config
}

// requiredKeys lists the configuration keys a rule reads besides its own
// rules.<id> entry.
func requiredKeys(ruleID string) []string {
	switch ruleID {
	case "1_1":
		return []string{"exceptions.volatile"}
	case "1_3", "4_4":
		return []string{"exceptions.globals"}
	case "2_1":
		return []string{"forbidden.delay"}
	case "2_2":
		return []string{"forbidden.display"}
	case "2_3":
		return []string{"forbidden.print"}
	case "2_5":
		return []string{"isr.max_calls"}
	case "3_1", "3_2":
		return []string{"header.extensions"}
	case "4_1":
		return []string{"rtos.isr_primitives", "rtos.isr_suffix"}
	case "4_2":
		return []string{"rtos.task_names", "rtos.task_create_apis", "rtos.isr_suffix"}
	case "4_3":
		return []string{"rtos.task_names", "rtos.task_create_apis", "forbidden.delay"}
	}
	return nil
}

func (c *RuleConfig) present(key string) bool {
	switch key {
	case "isr.names":
		return c.ISR.Names != nil
	case "isr.registration_apis":
		return c.ISR.RegistrationAPIs != nil
	case "isr.max_calls":
		return c.ISR.MaxCalls != nil
	case "forbidden.delay":
		return c.Forbidden.Delay != nil
	case "forbidden.display":
		return c.Forbidden.Display != nil
	case "forbidden.print":
		return c.Forbidden.Print != nil
	case "exceptions.volatile":
		return c.Exceptions.Volatile != nil
	case "exceptions.globals":
		return c.Exceptions.Globals != nil
	case "rtos.task_names":
		return c.RTOS.TaskNames != nil
	case "rtos.task_create_apis":
		return c.RTOS.TaskCreateAPIs != nil
	case "rtos.isr_primitives":
		return c.RTOS.ISRPrimitives != nil
	case "rtos.isr_suffix":
		return c.RTOS.ISRSuffix != ""
	case "header.extensions":
		return c.Header.Extensions != nil
	}
	return false
}

// Validate checks that every key read by the enabled rules is present.
func (c *RuleConfig) Validate(enabledRuleIDs []string) error {
	cerr := &ConfigurationError{Source: c.Source}
	keys := []string{"isr.names", "isr.registration_apis"}
	for _, id := range enabledRuleIDs {
		for _, key := range requiredKeys(id) {
			if !slices.Contains(keys, key) {
				keys = append(keys, key)
			}
		}
	}
	for _, key := range keys {
		if !c.present(key) {
			cerr.Missing = append(cerr.Missing, key)
		}
	}
	if c.ISR.MaxCalls != nil && *c.ISR.MaxCalls < 0 {
		cerr.Invalid = append(cerr.Invalid, "isr.max_calls must not be negative")
	}
	for _, id := range enabledRuleIDs {
		rule, ok := c.Rules[id]
		if !ok {
			cerr.Missing = append(cerr.Missing, "rules."+id)
			continue
		}
		if rule.Alias == "" {
			cerr.Missing = append(cerr.Missing, "rules."+id+".alias")
		}
		if !ValidSeverity[rule.Severity] {
			cerr.Invalid = append(cerr.Invalid, fmt.Sprintf("rules.%s.severity %q", id, rule.Severity))
		}
		if len(rule.Text) != 2 || rule.Text[0] == "" || rule.Text[1] == "" {
			cerr.Invalid = append(cerr.Invalid, fmt.Sprintf("rules.%s.text needs a long and a short text", id))
		}
	}
	if len(cerr.Missing) > 0 || len(cerr.Invalid) > 0 {
		return cerr
	}
	return nil
}

func (c *RuleConfig) Rule(id string) RuleText {
	return c.Rules[id]
}

// Message returns the long text of a rule, or the short one.
func (c *RuleConfig) Message(id string, short bool) string {
	text := c.Rules[id].Text
	if len(text) < 2 {
		return ""
	}
	if short {
		return text[1]
	}
	return text[0]
}

// FindRule resolves a rule by id ("1_1"), alias ("volatile-isr-global")
// or full name ("firmware/rule_1_1").
func (c *RuleConfig) FindRule(name string) (string, bool) {
	id := CheckRule{Name: name}.RuleID()
	if _, ok := c.Rules[id]; ok {
		return id, true
	}
	for id, rule := range c.Rules {
		if rule.Alias == name {
			return id, true
		}
	}
	return "", false
}

func (c *RuleConfig) IsHeader(path string) bool {
	for _, ext := range c.Header.Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func (c *RuleConfig) Settings(rtos bool) facts.Settings {
	return facts.Settings{
		InterruptNames:   c.ISR.Names,
		RegistrationAPIs: c.ISR.RegistrationAPIs,
		WithTasks:        rtos,
		TaskNames:        c.RTOS.TaskNames,
		TaskCreateAPIs:   c.RTOS.TaskCreateAPIs,
	}
}
