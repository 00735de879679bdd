// Package cycledetect finds strongly connected components of mutually
// recursive functions in a costgraph.Data call graph and collapses each one
// found into a costgraph.FunctionCycle, so inclusive-cost views don't report
// runaway numbers on recursive chains.
package cycledetect

import "github.com/standardbeagle/cgview/internal/costgraph"

// dfsState holds the Tarjan low-link bookkeeping for one detection run. It
// lives only for the duration of Detect, never attached to the graph.
type dfsState struct {
	data      *costgraph.Data
	cutFrac   float64
	prefix    map[*costgraph.Function]int
	low       map[*costgraph.Function]int
	onStack   map[*costgraph.Function]bool
	stack     []*costgraph.Function
	counter   int
	newCycles []*costgraph.FunctionCycle
}

// Detect runs cycle detection over every function currently in data and
// returns every newly collapsed FunctionCycle. cutFraction configures the
// cost-cut heuristic: a call edge is skipped during traversal (and so can
// never join a cycle) when its cost is below cutFraction times the largest
// cost flowing into the function through any single caller — a 0 or
// negative cutFraction disables pruning entirely. Functions already folded
// into an earlier cycle (Function.Cycle != nil) are skipped.
func Detect(data *costgraph.Data, cutFraction float64) []*costgraph.FunctionCycle {
	st := &dfsState{
		data:    data,
		cutFrac: cutFraction,
		prefix:  make(map[*costgraph.Function]int),
		low:     make(map[*costgraph.Function]int),
		onStack: make(map[*costgraph.Function]bool),
	}
	for _, f := range data.AllFunctions() {
		if f.Cycle != nil {
			continue
		}
		if _, seen := st.prefix[f]; seen {
			continue
		}
		st.visit(f)
	}
	return st.newCycles
}

// cutLimit returns the minimum call cost (event column 0) required for an
// outgoing call of f to be followed during traversal.
func (st *dfsState) cutLimit(f *costgraph.Function) uint64 {
	if st.cutFrac <= 0 {
		return 0
	}
	var base uint64
	if len(f.Callers) > 0 {
		for _, c := range f.Callers {
			if v := uint64(c.Cost().Get(0)); v > base {
				base = v
			}
		}
	} else {
		base = uint64(f.Inclusive().Get(0))
	}
	return uint64(float64(base) * st.cutFrac)
}

func (st *dfsState) visit(f *costgraph.Function) {
	st.counter++
	prefixNo := st.counter
	st.prefix[f] = prefixNo
	st.low[f] = prefixNo

	st.stack = append(st.stack, f)
	st.onStack[f] = true

	limit := st.cutLimit(f)

	for _, call := range f.Callings {
		if uint64(call.Cost().Get(0)) < limit {
			continue
		}
		callee := call.Callee
		if callee.Cycle != nil {
			continue
		}
		if _, seen := st.prefix[callee]; !seen {
			st.visit(callee)
			if st.low[callee] < st.low[f] {
				st.low[f] = st.low[callee]
			}
		} else if st.onStack[callee] {
			if st.prefix[callee] < st.low[f] {
				st.low[f] = st.prefix[callee]
			}
		}
	}

	if st.low[f] != prefixNo {
		return
	}

	// f is the root of a strongly connected component: pop everything
	// down to and including f off the stack.
	var members []*costgraph.Function
	for {
		n := len(st.stack) - 1
		top := st.stack[n]
		st.stack = st.stack[:n]
		st.onStack[top] = false
		members = append(members, top)
		if top == f {
			break
		}
	}

	if len(members) < 2 {
		return
	}
	fc := st.data.NewFunctionCycle(members)
	st.newCycles = append(st.newCycles, fc)
}
