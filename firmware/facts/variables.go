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

package facts

import (
	"naive.systems/fwcheck/firmware/checker_integration/cppcheck"
)

type StorageClass int

const (
	StorageUnknown StorageClass = iota
	StorageGlobal
	StorageLocal
	StorageArgument
)

func (s StorageClass) String() string {
	switch s {
	case StorageGlobal:
		return "global"
	case StorageLocal:
		return "local"
	case StorageArgument:
		return "argument"
	}
	return "unknown"
}

func Classify(v *cppcheck.Variable) StorageClass {
	switch {
	case v.IsGlobal:
		return StorageGlobal
	case v.IsArgument:
		return StorageArgument
	case v.IsLocal:
		return StorageLocal
	}
	return StorageUnknown
}

func variablesOf(cfg *cppcheck.Configuration, class StorageClass) []cppcheck.Ref {
	refs := []cppcheck.Ref{}
	for i := range cfg.Variables {
		if Classify(&cfg.Variables[i]) == class {
			refs = append(refs, cppcheck.Ref(i))
		}
	}
	return refs
}

// Globals returns the global variables in dump order.
func Globals(cfg *cppcheck.Configuration) []cppcheck.Ref {
	return variablesOf(cfg, StorageGlobal)
}

func Locals(cfg *cppcheck.Configuration) []cppcheck.Ref {
	return variablesOf(cfg, StorageLocal)
}

func Arguments(cfg *cppcheck.Configuration) []cppcheck.Ref {
	return variablesOf(cfg, StorageArgument)
}
