package costgraph

import (
	"testing"

	"github.com/standardbeagle/cgview/internal/evttype"
	"github.com/standardbeagle/cgview/internal/fixpool"
)

func TestFixCostTrimsTrailingZeros(t *testing.T) {
	arena := fixpool.NewArena()
	var mapped [evttype.MaxReal]uint64
	mapped[0] = 10
	mapped[2] = 30
	fc := NewFixCost(arena, mapped)

	var ca CostArray
	fc.AddInto(&ca)
	if got := ca.Get(0); got != 10 {
		t.Fatalf("ca.Get(0) = %d, want 10", got)
	}
	if got := ca.Get(1); got != 0 {
		t.Fatalf("ca.Get(1) = %d, want 0", got)
	}
	if got := ca.Get(2); got != 30 {
		t.Fatalf("ca.Get(2) = %d, want 30", got)
	}
}

func TestFixCostAllZeroAllocatesNothing(t *testing.T) {
	arena := fixpool.NewArena()
	var mapped [evttype.MaxReal]uint64
	fc := NewFixCost(arena, mapped)
	if len(fc.values) != 0 {
		t.Fatalf("expected no stored columns, got %d", len(fc.values))
	}
	stats := arena.Stats()
	if stats.UsedWords != 0 {
		t.Fatalf("expected arena untouched, got %d used words", stats.UsedWords)
	}
}

func TestFixCallCostCarriesCallCount(t *testing.T) {
	arena := fixpool.NewArena()
	var mapped [evttype.MaxReal]uint64
	mapped[0] = 5
	fcc := NewFixCallCost(arena, mapped, 12)
	if fcc.Calls != 12 {
		t.Fatalf("fcc.Calls = %d, want 12", fcc.Calls)
	}
	var ca CostArray
	fcc.AddInto(&ca)
	if got := ca.Get(0); got != 5 {
		t.Fatalf("ca.Get(0) = %d, want 5", got)
	}
}

func TestFixJumpStoresCounters(t *testing.T) {
	arena := fixpool.NewArena()
	fj := NewFixJump(arena, 100, 42)
	if fj.Executed() != 100 {
		t.Fatalf("Executed() = %d, want 100", fj.Executed())
	}
	if fj.Followed() != 42 {
		t.Fatalf("Followed() = %d, want 42", fj.Followed())
	}
}
