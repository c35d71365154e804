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

package rulesets

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/glog"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// Ruleset is the name every firmware rule is reported under.
const Ruleset = "firmware"

// FullName formats a rule id as shown in reports, e.g. "FW 1.1".
func FullName(ruleID string) string {
	return "FW " + strings.ReplaceAll(ruleID, "_", ".")
}

func isUTF8(charset string) bool {
	switch strings.ToLower(charset) {
	case "", "utf8", "utf-8":
		return true
	}
	return false
}

// ValidateCharset reports whether charset is a known IANA name.
func ValidateCharset(charset string) error {
	if isUTF8(charset) {
		return nil
	}
	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil || e == nil {
		return fmt.Errorf("unsupported source charset %q", charset)
	}
	return nil
}

func convertCharset(b []byte, charset string) string {
	byteReader := bytes.NewReader(b)
	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		glog.Warning("ianaindex.MIME.Encoding err, the charset is considered as UTF-8 by default")
		return string(b)
	}
	if e == nil {
		glog.Warning("charset not found, the charset is considered as UTF-8 by default")
		return string(b)
	}
	reader := transform.NewReader(byteReader, e.NewDecoder())
	decoded, err := io.ReadAll(reader)
	if err != nil {
		glog.Warning("io.ReadAll err, the charset is considered as UTF-8 by default")
		return string(b)
	}
	return string(decoded)
}

// readLines calls visit with every line in [lower, upper], decoded to UTF-8.
func readLines(path string, lower, upper int, charset string, visit func(lineNumber int, text string)) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineCount := 0
	for scanner.Scan() {
		lineCount++
		if lineCount < lower {
			continue
		} else if lineCount > upper {
			break
		}
		text := scanner.Text()
		if !isUTF8(charset) {
			text = convertCharset(scanner.Bytes(), charset)
		}
		visit(lineCount, text)
	}
	return scanner.Err()
}

// GetCode returns the lines around lineNumber, the line itself marked with
// "> ".
func GetCode(path string, lineNumber int, charset string) (string, error) {
	var output strings.Builder
	err := readLines(path, lineNumber-2, lineNumber+2, charset, func(n int, text string) {
		if n == lineNumber {
			fmt.Fprintf(&output, "> %d| %s\n", n, text)
		} else {
			fmt.Fprintf(&output, "%d| %s\n", n, text)
		}
	})
	if err != nil {
		return "", err
	}
	return output.String(), nil
}

// GetLine returns a single source line without surrounding whitespace.
func GetLine(path string, lineNumber int, charset string) (string, error) {
	line := ""
	err := readLines(path, lineNumber, lineNumber, charset, func(_ int, text string) {
		line = strings.TrimSpace(text)
	})
	return line, err
}
