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
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"naive.systems/fwcheck/firmware/checker_integration/cppcheck"
	"naive.systems/fwcheck/firmware/utils"
)

// CallGraph is the part of the direct call graph reachable from a set of
// roots, keyed by function name.
type CallGraph struct {
	graph utils.Graph
}

func NewCallGraph(cfg *cppcheck.Configuration, reach *Reachability, roots ...*FunctionSet) *CallGraph {
	g := &CallGraph{graph: utils.Graph{}}
	visited := make(map[cppcheck.Ref]bool)
	stack := []cppcheck.Ref{}
	for _, set := range roots {
		if set == nil {
			continue
		}
		for _, fn := range set.Functions() {
			if !visited[fn] {
				visited[fn] = true
				stack = append(stack, fn)
			}
		}
	}
	for len(stack) > 0 {
		fn := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		caller := cfg.Function(fn).Name
		if _, ok := g.graph[caller]; !ok {
			g.graph[caller] = make(map[string]struct{})
		}
		for _, callee := range reach.Callees(fn) {
			g.graph.AddEdge(caller, cfg.Function(callee).Name)
			if !visited[callee] {
				visited[callee] = true
				stack = append(stack, callee)
			}
		}
	}
	// Direct recursion is dropped from callees, record it from the tokens.
	for fn := range visited {
		for _, tok := range Tokens(reach.Own(fn)) {
			if IsDirectCall(cfg, tok) && cfg.Tokens[tok].Function == fn {
				name := cfg.Function(fn).Name
				g.graph.AddEdge(name, name)
				break
			}
		}
	}
	return g
}

func sortedNodes[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

func (g *CallGraph) Callees(name string) []string {
	return sortedNodes(g.graph[name])
}

// Cycles lists the recursive groups of the graph: multi-node strongly
// connected components, then single functions that call themselves.
func (g *CallGraph) Cycles() [][]string {
	cycles := utils.RecursiveTarjanSCC(g.graph)
	for _, name := range sortedNodes(g.graph) {
		if g.graph.HasSelfLoop(name) {
			cycles = append(cycles, []string{name})
		}
	}
	return cycles
}
