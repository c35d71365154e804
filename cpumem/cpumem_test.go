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

package cpumem

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestAcquireBoundsConcurrency(t *testing.T) {
	Init(2)
	var running, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := Acquire(1, "task"); err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			Release(1)
		}()
	}
	wg.Wait()
	if peak > 2 {
		t.Errorf("unexpected peak parsed: %v. expected at most: %v.", peak, 2)
	}
}

func TestAcquireTooMany(t *testing.T) {
	Init(1)
	if err := Acquire(2, "greedy"); err == nil {
		t.Errorf("expected an error when acquiring more than the total")
	}
}
