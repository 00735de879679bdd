package costgraph

// Call is one caller→callee edge. Its cost is the inclusive share the
// profiler attributed to this specific call site — already the right value
// to sum into the caller's inclusive cost without walking the callee's own
// graph, which is what keeps recursive call chains from double-counting.
type Call struct {
	Caller *Function
	Callee *Function

	parts map[*Part]*PartCall

	cost  CostArray
	calls uint64
	dirty bool
}

func (c *Call) Invalidate() { c.dirty = true }

func (c *Call) recompute() {
	c.cost.Clear()
	c.calls = 0
	for p, pc := range c.parts {
		if !p.Active {
			continue
		}
		c.cost.AddArray(&pc.Cost)
		c.calls += pc.Calls
	}
	c.dirty = false
}

// Cost returns the inclusive-cost aggregate attributed to this edge over
// every active part.
func (c *Call) Cost() *CostArray {
	if c.dirty {
		c.recompute()
	}
	return &c.cost
}

// Calls returns the number of times this edge was taken, summed over every
// active part.
func (c *Call) Calls() uint64 {
	if c.dirty {
		c.recompute()
	}
	return c.calls
}

// PartCall returns (creating if needed) this edge's per-part mirror.
func (c *Call) PartCall(p *Part) *PartCall {
	if pc, ok := c.parts[p]; ok {
		return pc
	}
	pc := &PartCall{Call: c, Part: p}
	c.parts[p] = pc
	c.Invalidate()
	return pc
}

// Call returns (creating if needed) the edge from caller to callee,
// registering it on both endpoints' Callings/Callers lists the first time.
func (d *Data) Call(caller, callee *Function) *Call {
	for _, c := range caller.Callings {
		if c.Callee == callee {
			return c
		}
	}
	c := &Call{Caller: caller, Callee: callee, parts: map[*Part]*PartCall{}}
	caller.Callings = append(caller.Callings, c)
	callee.Callers = append(callee.Callers, c)
	return c
}
