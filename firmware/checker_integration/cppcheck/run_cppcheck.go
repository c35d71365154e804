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
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/golang/glog"
	"github.com/google/shlex"
	"naive.systems/fwcheck/cpumem"
	"naive.systems/fwcheck/cruleslib/basic"
	"naive.systems/fwcheck/firmware/utils"
)

// GenerateDumps runs `cppcheck --dump` on every source, at most jobs at a
// time, and returns the paths of the dump files that were produced in
// source order. A source that cppcheck fails on is logged and skipped.
func GenerateDumps(inputCppcheckBin, extraArgs string, sources []string, jobs, timeoutMinute int) ([]string, error) {
	cppcheckBin, err := utils.ResolveBinaryPath(inputCppcheckBin)
	if err != nil {
		return nil, err
	}
	args, err := shlex.Split(extraArgs)
	if err != nil {
		return nil, fmt.Errorf("failed to split cppcheck args %q: %v", extraArgs, err)
	}
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	cpumem.Init(jobs)
	produced := make([]bool, len(sources))
	var wg sync.WaitGroup
	for i, source := range sources {
		err := cpumem.Acquire(1, source)
		if err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func(i int, source string) {
			defer wg.Done()
			defer cpumem.Release(1)
			produced[i] = generateDump(cppcheckBin, args, source, timeoutMinute)
		}(i, source)
	}
	wg.Wait()
	dumps := []string{}
	for i, source := range sources {
		if produced[i] {
			dumps = append(dumps, source+DumpExt)
		}
	}
	return dumps, nil
}

func generateDump(cppcheckBin string, args []string, source string, timeoutMinute int) bool {
	cmdArgs := append([]string{"--dump", "--quiet"}, args...)
	cmdArgs = append(cmdArgs, filepath.Base(source))
	cmd := exec.Command(cppcheckBin, cmdArgs...)
	cmd.Dir = filepath.Dir(source)
	glog.Info("executing: ", cmd.String())
	out, err := basic.CombinedOutput(cmd, filepath.Base(source), timeoutMinute)
	if err != nil {
		glog.Errorf("failed to generate dump for %s: %v\n%s", source, err, string(out))
		return false
	}
	dumpPath := source + DumpExt
	if _, err := os.Stat(dumpPath); err != nil {
		glog.Errorf("cppcheck did not produce %s: %v", dumpPath, err)
		return false
	}
	return true
}
