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

// Package diff reads unified diffs (git diff output) to find the source
// lines a change added, so that only violations on those lines are shown.
package diff

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var hunkHeader = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// Hunk is the new-side range of one hunk.
type Hunk struct {
	NewPos, NewLines int
}

// File is one file of a patch. Added holds the new-side numbers of the
// lines starting with "+". NewName is empty for a deleted file.
type File struct {
	OldName string
	NewName string
	Hunks   []Hunk
	Added   map[int]bool
}

type Patch struct {
	Files []*File
}

func stripPrefix(name, prefix string) string {
	if name == "/dev/null" {
		return ""
	}
	// git appends a tab and a timestamp in some modes
	if i := strings.IndexByte(name, '\t'); i >= 0 {
		name = name[:i]
	}
	return strings.TrimPrefix(name, prefix)
}

func atoiOr(s string, fallback int) (int, error) {
	if s == "" {
		return fallback, nil
	}
	return strconv.Atoi(s)
}

// Parse reads a unified diff. Only "--- ", "+++ ", "@@ " and the hunk body
// lines are interpreted; "diff --git", "index" and mode lines are skipped.
func Parse(text string) (*Patch, error) {
	p := &Patch{}
	var f *File
	newLine, remaining := 0, 0
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Text()
		switch {
		case remaining > 0 && f != nil && !strings.HasPrefix(line, "@@ "):
			// inside a hunk body
			switch {
			case strings.HasPrefix(line, "+"):
				f.Added[newLine] = true
				newLine++
				remaining--
			case strings.HasPrefix(line, "-"):
			case strings.HasPrefix(line, `\`):
				// "\ No newline at end of file"
			default:
				newLine++
				remaining--
			}
		case strings.HasPrefix(line, "--- "):
			f = &File{OldName: stripPrefix(line[4:], "a/"), Added: map[int]bool{}}
			p.Files = append(p.Files, f)
		case strings.HasPrefix(line, "+++ "):
			if f == nil || len(f.Hunks) > 0 {
				return nil, fmt.Errorf("unexpected line %d '%s'", n, line)
			}
			f.NewName = stripPrefix(line[4:], "b/")
		case strings.HasPrefix(line, "@@ "):
			if f == nil {
				return nil, fmt.Errorf("hunk without file header at line %d", n)
			}
			match := hunkHeader.FindStringSubmatch(line)
			if match == nil {
				return nil, fmt.Errorf("could not extract hunk info from line %d '%s'", n, line)
			}
			pos, err := strconv.Atoi(match[3])
			if err != nil {
				return nil, fmt.Errorf("invalid hunk position in '%s': %v", line, err)
			}
			count, err := atoiOr(match[4], 1)
			if err != nil {
				return nil, fmt.Errorf("invalid hunk length in '%s': %v", line, err)
			}
			f.Hunks = append(f.Hunks, Hunk{NewPos: pos, NewLines: count})
			newLine, remaining = pos, count
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

func ParseFile(path string) (*Patch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read diff: %v", err)
	}
	return Parse(string(data))
}

// file finds the patched file whose new name is path, or whose new name
// is a suffix of path when path is absolute or rooted elsewhere.
func (p *Patch) file(path string) *File {
	path = filepath.ToSlash(filepath.Clean(path))
	for _, f := range p.Files {
		if f.NewName == "" {
			continue
		}
		if f.NewName == path || strings.HasSuffix(path, "/"+f.NewName) {
			return f
		}
	}
	return nil
}

// Added reports whether the patch added line of path.
func (p *Patch) Added(path string, line int) bool {
	f := p.file(path)
	return f != nil && f.Added[line]
}
