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

package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCleanCacheKeepsListedEntries(t *testing.T) {
	testDir := t.TempDir()
	for _, dir := range []string{"logs", "temp"} {
		if err := os.MkdirAll(filepath.Join(testDir, dir), os.ModePerm); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	for _, file := range []string{"results.json", filepath.Join("logs", "results.json")} {
		if err := os.WriteFile(filepath.Join(testDir, file), nil, 0644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	err := CleanCache(testDir, []string{"logs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := os.ReadDir(testDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "logs" {
		t.Errorf("unexpected entries left: %v. expected: [logs].", entries)
	}
	if _, err := os.Stat(filepath.Join(testDir, "logs", "results.json")); err != nil {
		t.Errorf("file inside kept directory was removed: %v", err)
	}
}

func TestResolveBinaryPath(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "cppcheck")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, testCase := range []struct {
		path    string
		wantErr bool
	}{
		{bin, false},
		{filepath.Join(dir, "missing"), true},
		{"./definitely/not/here/cppcheck", true},
		{"no-such-binary-in-path-xyz", true},
	} {
		t.Run(testCase.path, func(t *testing.T) {
			_, err := ResolveBinaryPath(testCase.path)
			if (err != nil) != testCase.wantErr {
				t.Errorf("unexpected error for %s: %v. expected error: %v.", testCase.path, err, testCase.wantErr)
			}
		})
	}
}
