package costgraph

import "fmt"

// FunctionCycle is a synthetic node standing in for a set of mutually
// recursive functions (found by the cycle detector). Collapsing them keeps
// callers-of-callers views from reporting runaway inclusive costs on
// recursive chains: a cycle's inclusive cost is the sum of its members'
// self cost plus whatever cost left the cycle entirely, never the cost of
// calls between two members.
type FunctionCycle struct {
	Function *Function // synthetic node; Function.Cycle points at itself
	Members  []*Function
	Number   int

	// Callers is the union of every call edge reaching a member from
	// outside the cycle (I4: calls between members never appear here).
	Callers []*Call
}

// NewFunctionCycle collapses members into a new synthetic cycle node,
// wiring each member's Cycle field to it, giving it one synthetic call to
// each member (I4), and registering it on data.
func (d *Data) NewFunctionCycle(members []*Function) *FunctionCycle {
	number := len(d.Cycles) + 1
	synthetic := &Function{
		Name:    fmt.Sprintf("<cycle %d>", number),
		data:    d,
		sources: map[*File]*FunctionSource{},
		instrs:  map[uint64]*Instr{},
		parts:   map[*Part]*PartFunction{},
	}
	synthetic.CycleNumber = number
	synthetic.Cycle = synthetic
	synthetic.dirty = true

	inCycle := make(map[*Function]bool, len(members))
	for _, m := range members {
		inCycle[m] = true
	}

	// Capture the external callers before wiring Cycle/CycleNumber, so the
	// "is this call internal" filter below is based on each member's
	// original callers rather than the synthetic edges about to be added.
	var callers []*Call
	seen := make(map[*Call]bool)
	for _, m := range members {
		for _, c := range m.Callers {
			if inCycle[c.Caller] || seen[c] {
				continue
			}
			seen[c] = true
			callers = append(callers, c)
		}
	}

	for _, m := range members {
		m.Cycle = synthetic
		m.CycleNumber = number
		m.Invalidate()
	}

	fc := &FunctionCycle{Function: synthetic, Members: members, Number: number, Callers: callers}
	synthetic.cycleInfo = fc
	d.Cycles = append(d.Cycles, fc)

	for _, m := range members {
		d.Call(synthetic, m)
	}

	return fc
}

// Self sums every member's self cost.
func (fc *FunctionCycle) Self() *CostArray {
	var sum CostArray
	for _, m := range fc.Members {
		sum.AddArray(m.Self())
	}
	return &sum
}

// Inclusive sums every member's self cost plus the cost of every call that
// leaves the cycle, excluding calls between two members of the same cycle.
func (fc *FunctionCycle) Inclusive() *CostArray {
	sum := fc.Self()
	inCycle := make(map[*Function]bool, len(fc.Members))
	for _, m := range fc.Members {
		inCycle[m] = true
	}
	for _, m := range fc.Members {
		for _, call := range m.Callings {
			if !inCycle[call.Callee] {
				sum.AddArray(call.Cost())
			}
		}
	}
	return sum
}
