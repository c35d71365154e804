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
	"strings"

	"github.com/golang/glog"
	"naive.systems/fwcheck/firmware/checker_integration/cppcheck"
)

// Settings selects how interrupt handlers and tasks are recognized.
type Settings struct {
	InterruptNames   []string
	RegistrationAPIs []RegistrationAPI
	// Tasks are only derived when WithTasks is set.
	WithTasks      bool
	TaskNames      []string
	TaskCreateAPIs []RegistrationAPI
}

// Unit bundles one configuration of one dump with every fact the rules
// read. It is built once, before any rule runs, and not modified after.
type Unit struct {
	DumpPath    string
	SourceFile  string
	Repo        string
	Config      *cppcheck.Configuration
	Resolver    *Resolver
	Assignments []Assignment
	Closure     *FunctionSet
	Tasks       *FunctionSet
	Reach       *Reachability
	CallGraph   *CallGraph
	Cycles      [][]string
}

func NewUnit(dump *cppcheck.Dump, repo string, cfg *cppcheck.Configuration, settings Settings) *Unit {
	u := &Unit{
		DumpPath:   dump.Path,
		SourceFile: dump.SourceFile,
		Repo:       repo,
		Config:     cfg,
		Resolver:   NewResolver(cfg),
	}
	u.Assignments = Assignments(cfg, u.Resolver)
	u.Closure = InterruptClosure(cfg, settings.InterruptNames, settings.RegistrationAPIs)
	if settings.WithTasks {
		u.Tasks = TaskFunctions(cfg, settings.TaskNames, settings.TaskCreateAPIs, u.Closure)
	} else {
		u.Tasks = NewFunctionSet()
	}
	u.Reach = NewReachability(cfg, u.Resolver)
	u.CallGraph = NewCallGraph(cfg, u.Reach, u.Closure, u.Tasks)
	u.Cycles = u.CallGraph.Cycles()
	for _, cycle := range u.Cycles {
		glog.Warningf("%s [%s]: recursion reachable from interrupt or task context: %s",
			dump.Path, cfg.Name, strings.Join(cycle, " -> "))
	}
	return u
}

func (u *Unit) FunctionName(fn cppcheck.Ref) string {
	if f := u.Config.Function(fn); f != nil {
		return f.Name
	}
	return ""
}

func (u *Unit) GlobalAssignments() []Assignment {
	return GlobalAssignments(u.Config, u.Assignments)
}
