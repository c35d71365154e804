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

package baseline

// Locations orders baseline entries by path, line and rule so the baseline
// file diffs cleanly between runs.
type Locations []Result

func (l Locations) Len() int {
	return len(l)
}

func (l Locations) Less(i, j int) bool {
	if l[i].Path != l[j].Path {
		return l[i].Path < l[j].Path
	}
	if l[i].LineNumber != l[j].LineNumber {
		return l[i].LineNumber < l[j].LineNumber
	}
	return l[i].Rule < l[j].Rule
}

func (l Locations) Swap(i, j int) {
	l[i], l[j] = l[j], l[i]
}
