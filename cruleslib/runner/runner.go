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

package runner

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"sync"
	"syscall"

	"github.com/golang/glog"
	"golang.org/x/text/message"
	"naive.systems/fwcheck/analyzer/results"
	"naive.systems/fwcheck/cruleslib/basic"
	"naive.systems/fwcheck/cruleslib/i18n"
	"naive.systems/fwcheck/cruleslib/stats"
)

// The task for Runner to run in parallels. Name is usually the dump path.
type AnalyzerTask struct {
	Id      int
	Name    string
	Analyze func(name string) (*results.ViolationsList, error)
}

type analyzerResult struct {
	id         int
	name       string
	violations *results.ViolationsList
	err        error
}

// A goroutine workgroup to run analyzers in parallel.
type ParaTaskRunner struct {
	showProgress   bool
	resultsDir     string
	workerWg       sync.WaitGroup
	collectorWg    sync.WaitGroup
	jobs_chan      chan AnalyzerTask
	results_chan   chan analyzerResult
	sigs_exiting   chan bool
	sigs           chan os.Signal
	collected      []*results.ViolationsList
	errors         []error
	processPrinter *basic.CheckingProcessPrinter
	printer        *message.Printer
}

// modify the analyzer result.
// eg. fill the dump file and fingerprint rules left empty.
func modifyResult(result *analyzerResult) {
	for _, v := range result.violations.Violations {
		if v.DumpFile == "" {
			v.DumpFile = result.name
		}
		if v.Fingerprint == "" {
			v.Fingerprint = v.ComputeFingerprint()
		}
	}
}

func (pt *ParaTaskRunner) worker(jobs <-chan AnalyzerTask, results chan<- analyzerResult) {
	defer pt.workerWg.Done()
	for j := range jobs {
		if pt.showProgress {
			pt.processPrinter.StartAnalyzeTask(j.Name, pt.printer)
		}
		func() {
			defer func() {
				// recover from possible panic
				if r := recover(); r != nil {
					glog.Error("Recovered in analyze: ", r, string(debug.Stack()))
					results <- analyzerResult{id: j.Id, name: j.Name, err: fmt.Errorf("panic in analyze %s: %v", j.Name, r)}
				}
				if pt.showProgress {
					pt.processPrinter.FinishAnalyzeTask(j.Name, pt.printer)
					stats.WriteProgress(pt.resultsDir, stats.AC, pt.processPrinter.GetPercentString(), pt.processPrinter.GetStartedAt())
				}
			}()
			violations, err := j.Analyze(j.Name)
			results <- analyzerResult{id: j.Id, name: j.Name, violations: violations, err: err}
		}()
	}
}

// Create a new task runner and results collectors.
func NewParaTaskRunner(numWorkers int32, taskNums int, showProgress bool, lang string, resultsDir string) *ParaTaskRunner {
	printer := i18n.GetPrinter(lang)
	if numWorkers <= 0 {
		numWorkers = int32(runtime.NumCPU())
		if showProgress {
			basic.PrintfWithTimeStamp(printer.Sprintf("Use %d CPU(s)", numWorkers))
		}
	}
	paraRunner := &ParaTaskRunner{
		showProgress:   showProgress,
		resultsDir:     resultsDir,
		jobs_chan:      make(chan AnalyzerTask, numWorkers),
		results_chan:   make(chan analyzerResult, numWorkers),
		sigs_exiting:   make(chan bool, 1),
		sigs:           make(chan os.Signal, 1),
		collected:      make([]*results.ViolationsList, taskNums),
		errors:         make([]error, taskNums),
		processPrinter: basic.NewCheckingProcessPrinter(taskNums),
		printer:        printer,
	}
	for w := 0; w < int(numWorkers); w++ {
		paraRunner.workerWg.Add(1)
		go paraRunner.worker(paraRunner.jobs_chan, paraRunner.results_chan)
	}

	// if a signal is received, notify the loop to stop sending new tasks
	signal.Notify(paraRunner.sigs, syscall.SIGINT)
	// collect results
	paraRunner.collectorWg.Add(1)
	go func() {
		for job_result := range paraRunner.results_chan {
			select {
			case <-paraRunner.sigs:
				if paraRunner.showProgress {
					basic.PrintfWithTimeStamp(printer.Sprintf("Ctrl C Pressed. Stop analysis"))
				}
				paraRunner.sigs_exiting <- true
				paraRunner.collectorWg.Done()
				// keep draining so that running workers can finish
				for range paraRunner.results_chan {
				}
				return
			default:
			}
			if job_result.err == nil && job_result.violations != nil {
				modifyResult(&job_result)
				paraRunner.collected[job_result.id] = job_result.violations
			} else if job_result.err != nil {
				glog.Errorf("Analyze %v got error %v", job_result.name, job_result.err)
			}
			paraRunner.errors[job_result.id] = job_result.err
		}
		paraRunner.collectorWg.Done()
	}()
	return paraRunner
}

// merged concatenates the collected lists in task id order, so the result
// does not depend on scheduling.
func (pt *ParaTaskRunner) merged() *results.ViolationsList {
	all := &results.ViolationsList{}
	for _, list := range pt.collected {
		all.AddList(list)
	}
	return all
}

func (pt *ParaTaskRunner) closeResultsWhenDone() {
	go func() {
		pt.workerWg.Wait()
		close(pt.results_chan)
	}()
}

// check for the SIGINT existing signal
// If the existing signal is received, it will return results and errors.
// results will never be nil if the existing signal is received.
// If the existing signal is not received, it will return nil for results and nil for errors.
func (pt *ParaTaskRunner) CheckSignalExiting() (violations *results.ViolationsList, errs []error) {
	select {
	case <-pt.sigs_exiting:
		signal.Stop(pt.sigs)
		// close the jobs_chan to let worker end
		close(pt.jobs_chan)
		pt.closeResultsWhenDone()
		pt.collectorWg.Wait()
		// return results and errors directly because collector has stop.
		return pt.merged(), pt.errors
	default:
		return nil, nil
	}
}

// Add a task to the task runner and start running the task.
func (pt *ParaTaskRunner) AddTask(task AnalyzerTask) {
	pt.jobs_chan <- task
}

// Wait until all the tasks workers and collectors are finished and all results are collected.
// Return the results and errors.
func (pt *ParaTaskRunner) CollectResultsAndErrors() (violations *results.ViolationsList, errs []error) {
	pt.closeResultsWhenDone()
	close(pt.jobs_chan)
	pt.collectorWg.Wait()
	signal.Stop(pt.sigs)
	return pt.merged(), pt.errors
}

// CountErrors returns the number of failed tasks.
func CountErrors(errs []error) int {
	n := 0
	for _, err := range errs {
		if err != nil {
			n++
		}
	}
	return n
}

// JoinErrors folds the task errors into one, nil when every task passed.
func JoinErrors(errs []error) error {
	var joined error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if joined == nil {
			joined = err
		} else {
			joined = fmt.Errorf("%v; %w", joined, err)
		}
	}
	return joined
}
