package costgraph

import (
	"github.com/standardbeagle/cgview/internal/evttype"
	"github.com/standardbeagle/cgview/internal/fixpool"
	"github.com/standardbeagle/cgview/internal/subcost"
)

// FixCost is an immutable, arena-backed view of one cost line's real-index
// values: a trailing run of zero columns is never stored, since most cost
// lines populate only a handful of the real indexes in play.
type FixCost struct {
	values []uint64
}

// NewFixCost commits mapped (produced by evttype.SubMapping.Apply) into
// arena, trimming unused trailing zero columns before allocating.
func NewFixCost(arena *fixpool.Arena, mapped [evttype.MaxReal]uint64) *FixCost {
	n := 0
	for i, v := range mapped {
		if v != 0 {
			n = i + 1
		}
	}
	if n == 0 {
		return &FixCost{}
	}
	buf := arena.Allocate(n)
	copy(buf, mapped[:n])
	return &FixCost{values: buf}
}

// AddInto adds every non-zero stored column into dst.
func (c *FixCost) AddInto(dst *CostArray) {
	for i, v := range c.values {
		if v != 0 {
			dst.AddAt(i, subcost.SubCost(v))
		}
	}
}

// FixCallCost is a FixCost plus the invocation count recorded on the
// preceding "calls=" line.
type FixCallCost struct {
	FixCost
	Calls uint64
}

// NewFixCallCost commits a call-cost record into arena.
func NewFixCallCost(arena *fixpool.Arena, mapped [evttype.MaxReal]uint64, calls uint64) *FixCallCost {
	return &FixCallCost{FixCost: *NewFixCost(arena, mapped), Calls: calls}
}

// FixJump is an arena-backed (executed, followed) counter pair for one
// "jump="/"jcnd=" line.
type FixJump struct {
	data []uint64
}

// NewFixJump commits a jump record into arena.
func NewFixJump(arena *fixpool.Arena, executed, followed uint64) *FixJump {
	buf := arena.Allocate(2)
	buf[0], buf[1] = executed, followed
	return &FixJump{data: buf}
}

func (j *FixJump) Executed() uint64 { return j.data[0] }
func (j *FixJump) Followed() uint64 { return j.data[1] }
