// Package evttype implements the event-type algebra: a registry of real
// event counters at fixed array positions, derived event types defined by
// linear formulas over other event types, and the sub-mapping that reorders
// a dump file's columns into a canonical order.
package evttype

import (
	"fmt"
)

// MaxReal is the hard cap on real event-type columns a cost array can hold.
const MaxReal = 20

// InvalidIndex marks an EventType that has no real column of its own.
const InvalidIndex = -1

// EventType is either real (RealIndex is a valid column, Formula is empty)
// or derived (RealIndex is InvalidIndex, Formula is a linear expression over
// other event types' short names).
type EventType struct {
	ShortName string
	LongName  string
	Formula   string

	RealIndex int

	// Coeff holds, for a derived type, the signed coefficient of every real
	// column after formula resolution. Populated lazily by resolve().
	Coeff [MaxReal]int64

	resolved bool
	resolver *EventTypeSet // set that owns this type, for lazy resolution
}

// IsReal reports whether this event type occupies a fixed array column.
func (e *EventType) IsReal() bool {
	return e.RealIndex != InvalidIndex
}

// SubCost computes this event type's value for a given cost array. For a
// real type it is simply the indexed counter; for a derived type it is the
// coefficient-weighted sum over real columns. costs holds raw counters
// indexed the same way as the owning EventTypeSet's real indexes;
// costgraph.CostArray.SubCost builds this slice from its counters.
func (e *EventType) SubCost(costs []uint64) uint64 {
	if e.IsReal() {
		if e.RealIndex < 0 || e.RealIndex >= len(costs) {
			return 0
		}
		return costs[e.RealIndex]
	}
	if !e.resolved && e.resolver != nil {
		_ = e.resolver.resolveFormula(e)
	}
	var sum int64
	for i := 0; i < MaxReal && i < len(costs); i++ {
		if e.Coeff[i] != 0 {
			sum += e.Coeff[i] * int64(costs[i])
		}
	}
	if sum < 0 {
		return 0
	}
	return uint64(sum)
}

// ToUint64 converts a slice of any uint64-based counter type (such as
// subcost.SubCost) to plain uint64 for SubCost evaluation.
func ToUint64[T ~uint64](in []T) []uint64 {
	out := make([]uint64, len(in))
	for i, v := range in {
		out[i] = uint64(v)
	}
	return out
}

func (e *EventType) String() string {
	if e.IsReal() {
		return fmt.Sprintf("%s(real:%d)", e.ShortName, e.RealIndex)
	}
	return fmt.Sprintf("%s(=%s)", e.ShortName, e.Formula)
}
