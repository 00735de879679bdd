package costgraph

import "github.com/standardbeagle/cgview/internal/subcost"

// Jump is a control-flow edge between two instructions recorded by a
// "jump="/"jcnd=" line: a taken branch, conditional or unconditional, that
// does not go through a call. Executed counts every time control reached
// the jump site; Followed counts how many of those actually took the
// branch (Followed <= Executed, with equality for unconditional jumps).
type Jump struct {
	FromFunction *Function
	FromAddr     subcost.Addr
	ToFunction   *Function
	ToAddr       subcost.Addr
	Conditional  bool

	parts map[*Part]*PartJump

	executed, followed uint64
	dirty              bool
}

func (j *Jump) Invalidate() { j.dirty = true }

func (j *Jump) recompute() {
	j.executed, j.followed = 0, 0
	for p, pj := range j.parts {
		if !p.Active {
			continue
		}
		j.executed += pj.Executed
		j.followed += pj.Followed
	}
	j.dirty = false
}

// Executed returns how many times control reached this jump site, summed
// over every active part.
func (j *Jump) Executed() uint64 {
	if j.dirty {
		j.recompute()
	}
	return j.executed
}

// Followed returns how many of those reaches actually took the branch.
func (j *Jump) Followed() uint64 {
	if j.dirty {
		j.recompute()
	}
	return j.followed
}

// PartJump returns (creating if needed) this jump's per-part mirror.
func (j *Jump) PartJump(p *Part) *PartJump {
	if pj, ok := j.parts[p]; ok {
		return pj
	}
	pj := &PartJump{Jump: j, Part: p}
	j.parts[p] = pj
	j.Invalidate()
	return pj
}

// jumpKey identifies a jump edge by its four endpoints.
type jumpKey struct {
	fromFn   *Function
	fromAddr subcost.Addr
	toFn     *Function
	toAddr   subcost.Addr
}

// Jump returns (creating if needed) the edge between the given endpoints.
func (d *Data) Jump(fromFn *Function, fromAddr subcost.Addr, toFn *Function, toAddr subcost.Addr, conditional bool) *Jump {
	if d.jumps == nil {
		d.jumps = map[jumpKey]*Jump{}
	}
	key := jumpKey{fromFn, fromAddr, toFn, toAddr}
	if j, ok := d.jumps[key]; ok {
		return j
	}
	j := &Jump{
		FromFunction: fromFn,
		FromAddr:     fromAddr,
		ToFunction:   toFn,
		ToAddr:       toAddr,
		Conditional:  conditional,
		parts:        map[*Part]*PartJump{},
	}
	d.jumps[key] = j
	return j
}
