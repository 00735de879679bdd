package costgraph

// fixCostNode and its siblings below link immutable fixed-cost records
// (from the fixpool-backed records.go types) onto the PartFunction/PartCall/
// PartJump that owns them. Each list is built by head-insertion as the
// parser encounters records, so it ends up in reverse encounter order.

type fixCostNode struct {
	cost *FixCost
	next *fixCostNode
}

type fixCallCostNode struct {
	cost *FixCallCost
	next *fixCallCostNode
}

type fixJumpNode struct {
	jump *FixJump
	next *fixJumpNode
}

// PartFunction holds one function's contribution within a single part: the
// self cost attributed directly to it by position-based cost lines, and the
// inclusive cost, which is Self plus the cost of every call it made within
// this part (already given per edge by the dump, so simple addition during
// loading keeps this correct even across recursion).
type PartFunction struct {
	Function *Function
	Part     *Part

	Self      CostArray
	Inclusive CostArray

	selfHead *fixCostNode
	callHead *fixCostNode
}

// AddCost folds a position-cost-line contribution into both Self and
// Inclusive, and notifies dependants.
func (pf *PartFunction) AddCost(values *CostArray) {
	pf.Self.AddArray(values)
	pf.Inclusive.AddArray(values)
	pf.Function.Invalidate()
}

// AddCallCost folds an outgoing call's attributed cost into Inclusive only
// (Self never includes callee cost).
func (pf *PartFunction) AddCallCost(values *CostArray) {
	pf.Inclusive.AddArray(values)
	pf.Function.Invalidate()
}

// AddFixedCost links an arena-backed self-cost record at the head of this
// part's self-cost list (reverse encounter order) and folds it into
// Self/Inclusive the same way AddCost does.
func (pf *PartFunction) AddFixedCost(c *FixCost) {
	pf.selfHead = &fixCostNode{cost: c, next: pf.selfHead}
	var tmp CostArray
	c.AddInto(&tmp)
	pf.AddCost(&tmp)
}

// AddFixedCallCost is AddFixedCost's counterpart for an outgoing call's
// fixed-cost record: it folds into Inclusive only, matching AddCallCost.
func (pf *PartFunction) AddFixedCallCost(c *FixCost) {
	pf.callHead = &fixCostNode{cost: c, next: pf.callHead}
	var tmp CostArray
	c.AddInto(&tmp)
	pf.AddCallCost(&tmp)
}

// FixedSelfCosts returns every self-cost record linked to this part, in
// reverse encounter order (most recently parsed first).
func (pf *PartFunction) FixedSelfCosts() []*FixCost {
	var out []*FixCost
	for n := pf.selfHead; n != nil; n = n.next {
		out = append(out, n.cost)
	}
	return out
}

// PartLine mirrors a Line's self cost within a single part.
type PartLine struct {
	Line *Line
	Part *Part
	Self CostArray
}

func (pl *PartLine) AddCost(values *CostArray) {
	pl.Self.AddArray(values)
	pl.Line.Invalidate()
}

// PartInstr mirrors an Instr's self cost within a single part.
type PartInstr struct {
	Instr *Instr
	Part  *Part
	Self  CostArray
}

func (pi *PartInstr) AddCost(values *CostArray) {
	pi.Self.AddArray(values)
	pi.Instr.Invalidate()
}

// PartCall mirrors a Call edge's inclusive cost and invocation count within
// a single part.
type PartCall struct {
	Call  *Call
	Part  *Part
	Cost  CostArray
	Calls uint64

	fixedHead *fixCallCostNode
}

func (pc *PartCall) AddCost(values *CostArray, calls uint64) {
	pc.Cost.AddArray(values)
	pc.Calls += calls
	pc.Call.Invalidate()
}

// AddFixed links an arena-backed call-cost record at the head of this part
// call's list and folds it into Cost/Calls the same way AddCost does.
func (pc *PartCall) AddFixed(c *FixCallCost) {
	pc.fixedHead = &fixCallCostNode{cost: c, next: pc.fixedHead}
	var tmp CostArray
	c.AddInto(&tmp)
	pc.AddCost(&tmp, c.Calls)
}

// FixedCosts returns every call-cost record linked to this part call, in
// reverse encounter order.
func (pc *PartCall) FixedCosts() []*FixCallCost {
	var out []*FixCallCost
	for n := pc.fixedHead; n != nil; n = n.next {
		out = append(out, n.cost)
	}
	return out
}

// PartJump mirrors a Jump's executed/followed counters within a single
// part.
type PartJump struct {
	Jump     *Jump
	Part     *Part
	Executed uint64
	Followed uint64

	fixedHead *fixJumpNode
}

func (pj *PartJump) Add(executed, followed uint64) {
	pj.Executed += executed
	pj.Followed += followed
	pj.Jump.Invalidate()
}

// AddFixed links an arena-backed jump record at the head of this part
// jump's list and folds it into Executed/Followed the same way Add does.
func (pj *PartJump) AddFixed(j *FixJump) {
	pj.fixedHead = &fixJumpNode{jump: j, next: pj.fixedHead}
	pj.Add(j.Executed(), j.Followed())
}

// FixedJumps returns every jump record linked to this part jump, in
// reverse encounter order.
func (pj *PartJump) FixedJumps() []*FixJump {
	var out []*FixJump
	for n := pj.fixedHead; n != nil; n = n.next {
		out = append(out, n.jump)
	}
	return out
}
