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

package cppcheck

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/golang/glog"
)

const DumpExt = ".dump"

func isIgnored(rel string, ignorePatterns []string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range ignorePatterns {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			glog.Errorf("invalid ignore pattern %s: %v", pattern, err)
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// findFiles walks root and returns regular files accepted by match, in
// lexical order. Directories matching one of ignorePatterns (relative to
// root) are not descended into.
func findFiles(root string, ignorePatterns []string, match func(string) bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if !match(root) {
			return nil, fmt.Errorf("%s is not an accepted input file", root)
		}
		return []string{root}, nil
	}
	files := []string{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel != "." && isIgnored(rel, ignorePatterns) {
			if d.IsDir() {
				glog.V(1).Infof("skip ignored directory %s", path)
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && match(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %v", root, err)
	}
	return files, nil
}

// FindDumpFiles returns root itself when it is a file, otherwise every
// *.dump file below root.
func FindDumpFiles(root string, ignorePatterns []string) ([]string, error) {
	return findFiles(root, ignorePatterns, func(path string) bool {
		return strings.HasSuffix(path, DumpExt)
	})
}

// FindSourceFiles lists the C sources below root that cppcheck should dump.
func FindSourceFiles(root string, ignorePatterns []string) ([]string, error) {
	return findFiles(root, ignorePatterns, func(path string) bool {
		return filepath.Ext(path) == ".c"
	})
}

// RepoName names the project a dump belongs to: the first path component
// below root, or the base name of root (of its parent directory when root
// is a file) for dumps directly inside it.
func RepoName(root, dumpPath string) string {
	base := root
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		base = filepath.Dir(root)
	}
	rel, err := filepath.Rel(base, dumpPath)
	if err == nil && !strings.HasPrefix(rel, "..") {
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) > 1 {
			return parts[0]
		}
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return filepath.Base(base)
	}
	return filepath.Base(abs)
}
