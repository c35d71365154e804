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

// Package cpumem bounds how many external processes run at once.
package cpumem

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
	"naive.systems/fwcheck/cruleslib/basic"
)

var (
	remainLock sync.Mutex
	remainCond *sync.Cond
	remainCpu  int
	totalCpu   int
)

func Init(cpu int) {
	remainLock.Lock()
	defer remainLock.Unlock()
	remainCond = sync.NewCond(&remainLock)
	remainCpu = cpu
	totalCpu = cpu
}

// Acquire blocks until cpu slots are free.
func Acquire(cpu int, taskName string) error {
	if cpu > totalCpu {
		return fmt.Errorf("%s aquired %d cpus, but total %d cpus available", taskName, cpu, totalCpu)
	}
	start := time.Now()
	remainLock.Lock()
	for remainCpu < cpu {
		remainCond.Wait()
	}
	remainCpu -= cpu
	remainLock.Unlock()
	glog.V(1).Infof("%s waited for [%s] to acquire resources", taskName, basic.FormatTimeDuration(time.Since(start)))
	return nil
}

func Release(cpu int) {
	remainLock.Lock()
	remainCpu += cpu
	remainLock.Unlock()
	remainCond.Broadcast()
}
