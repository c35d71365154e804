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
	"errors"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/golang/glog"
	"naive.systems/fwcheck/firmware/checker_integration/cppcheck"
)

// Reachability holds, per function, the tokens it owns and the functions
// it calls directly. Expanded token sets are memoized per root.
type Reachability struct {
	cfg     *cppcheck.Configuration
	own     map[cppcheck.Ref]*roaring.Bitmap
	callees map[cppcheck.Ref][]cppcheck.Ref
	memo    map[cppcheck.Ref]*roaring.Bitmap
	empty   *roaring.Bitmap
}

func NewReachability(cfg *cppcheck.Configuration, r *Resolver) *Reachability {
	reach := &Reachability{
		cfg:     cfg,
		own:     make(map[cppcheck.Ref]*roaring.Bitmap),
		callees: make(map[cppcheck.Ref][]cppcheck.Ref),
		memo:    make(map[cppcheck.Ref]*roaring.Bitmap),
		empty:   roaring.New(),
	}
	seen := make(map[[2]cppcheck.Ref]bool)
	for i := range cfg.Tokens {
		tok := cppcheck.Ref(i)
		fn, err := r.Function(tok)
		if err != nil {
			if !errors.Is(err, ErrGlobalScope) {
				glog.Warningf("skip token: %v", err)
			}
			continue
		}
		bm, ok := reach.own[fn]
		if !ok {
			bm = roaring.New()
			reach.own[fn] = bm
		}
		bm.Add(uint32(i))
		if !IsDirectCall(cfg, tok) {
			continue
		}
		callee := cfg.Tokens[i].Function
		if callee == fn {
			continue
		}
		edge := [2]cppcheck.Ref{fn, callee}
		if !seen[edge] {
			seen[edge] = true
			reach.callees[fn] = append(reach.callees[fn], callee)
		}
	}
	return reach
}

// Own returns the tokens whose owning function is fn. The bitmap must not
// be modified.
func (r *Reachability) Own(fn cppcheck.Ref) *roaring.Bitmap {
	if bm, ok := r.own[fn]; ok {
		return bm
	}
	return r.empty
}

// Callees lists the distinct functions fn calls directly, in call order.
func (r *Reachability) Callees(fn cppcheck.Ref) []cppcheck.Ref {
	return r.callees[fn]
}

// Expand returns the tokens of fn and of every function transitively
// called from it. Each function is visited once per expansion, so
// recursion terminates. The bitmap is shared with later calls and must not
// be modified.
func (r *Reachability) Expand(fn cppcheck.Ref) *roaring.Bitmap {
	if bm, ok := r.memo[fn]; ok {
		return bm
	}
	result := roaring.New()
	visited := map[cppcheck.Ref]bool{fn: true}
	stack := []cppcheck.Ref{fn}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		// A memoized set is already a complete closure.
		if bm, ok := r.memo[cur]; ok && cur != fn {
			result.Or(bm)
			continue
		}
		result.Or(r.Own(cur))
		for _, callee := range r.callees[cur] {
			if !visited[callee] {
				visited[callee] = true
				stack = append(stack, callee)
			}
		}
	}
	r.memo[fn] = result
	return result
}

// Tokens returns the token refs of bm in ascending order.
func Tokens(bm *roaring.Bitmap) []cppcheck.Ref {
	refs := make([]cppcheck.Ref, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		refs = append(refs, cppcheck.Ref(it.Next()))
	}
	return refs
}
