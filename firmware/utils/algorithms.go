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

package utils

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func IntMin(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Graph maps a function name to the set of names it calls.
type Graph map[string]map[string]struct{}

func (g Graph) AddEdge(from, to string) {
	if _, ok := g[from]; !ok {
		g[from] = make(map[string]struct{})
	}
	if _, ok := g[to]; !ok {
		g[to] = make(map[string]struct{})
	}
	g[from][to] = struct{}{}
}

func (g Graph) HasSelfLoop(node string) bool {
	_, ok := g[node][node]
	return ok
}

type tarjanState struct {
	dfn, low map[string]int
	dfnCnt   int
	onStack  map[string]bool
	stack    []string
	result   [][]string
	graph    Graph
}

// RecursiveTarjanSCC returns the strongly connected components of graph
// that have more than one node. Nodes are visited in sorted order so the
// result is deterministic. Self loops are not reported, use HasSelfLoop.
func RecursiveTarjanSCC(graph Graph) [][]string {
	s := &tarjanState{
		dfn:     make(map[string]int),
		low:     make(map[string]int),
		onStack: make(map[string]bool),
		graph:   graph,
	}
	nodes := maps.Keys(graph)
	slices.Sort(nodes)
	for _, node := range nodes {
		if _, ok := s.dfn[node]; !ok {
			s.visit(node)
		}
	}
	return s.result
}

func (s *tarjanState) visit(u string) {
	s.dfn[u] = s.dfnCnt
	s.low[u] = s.dfnCnt
	s.dfnCnt++
	s.stack = append(s.stack, u)
	s.onStack[u] = true
	succ := maps.Keys(s.graph[u])
	slices.Sort(succ)
	for _, v := range succ {
		if _, ok := s.dfn[v]; !ok {
			s.visit(v)
			s.low[u] = IntMin(s.low[u], s.low[v])
		} else if s.onStack[v] {
			s.low[u] = IntMin(s.low[u], s.dfn[v])
		}
	}
	if s.dfn[u] != s.low[u] {
		return
	}
	chain := make([]string, 0)
	for {
		v := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		s.onStack[v] = false
		chain = append(chain, v)
		if v == u {
			break
		}
	}
	if len(chain) > 1 {
		slices.Sort(chain)
		s.result = append(s.result, chain)
	}
}
