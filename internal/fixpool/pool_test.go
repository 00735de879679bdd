package fixpool

import "testing"

func TestAllocateAcrossChunks(t *testing.T) {
	a := NewArena()
	first := a.Allocate(10)
	if len(first) != 10 {
		t.Fatalf("len(first) = %d, want 10", len(first))
	}
	// Force a new chunk by requesting more than fits in the remainder.
	big := a.Allocate(ChunkCapacity)
	if len(big) != ChunkCapacity {
		t.Fatalf("len(big) = %d, want %d", len(big), ChunkCapacity)
	}
	stats := a.Stats()
	if stats.Chunks < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", stats.Chunks)
	}
	if stats.UsedWords != 10+ChunkCapacity {
		t.Fatalf("UsedWords = %d, want %d", stats.UsedWords, 10+ChunkCapacity)
	}
}

func TestAllocateIsStable(t *testing.T) {
	a := NewArena()
	buf := a.Allocate(4)
	buf[0], buf[1], buf[2], buf[3] = 1, 2, 3, 4
	// Allocate more and confirm the first allocation's backing data is
	// untouched (no reuse/aliasing across allocations).
	other := a.Allocate(4)
	other[0] = 99
	if buf[0] != 1 || buf[3] != 4 {
		t.Fatalf("first allocation corrupted: %v", buf)
	}
}

func TestReserveThenAllocateReserved(t *testing.T) {
	a := NewArena()
	scratch := a.Reserve(5)
	scratch[0], scratch[1], scratch[2] = 7, 8, 9
	committed, err := a.AllocateReserved(3)
	if err != nil {
		t.Fatalf("AllocateReserved: %v", err)
	}
	if len(committed) != 3 || committed[0] != 7 || committed[2] != 9 {
		t.Fatalf("committed = %v", committed)
	}
	// Next allocation should start immediately after the committed prefix,
	// not after the full reservation.
	next := a.Allocate(1)
	stats := a.Stats()
	_ = next
	if stats.UsedWords != 4 {
		t.Fatalf("UsedWords = %d, want 4 (3 committed + 1 next)", stats.UsedWords)
	}
}

func TestReserveWhileReservingPanics(t *testing.T) {
	a := NewArena()
	a.Reserve(2)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on nested Reserve")
		}
	}()
	a.Reserve(2)
}

func TestAllocateReservedRejectsOversize(t *testing.T) {
	a := NewArena()
	a.Reserve(3)
	if _, err := a.AllocateReserved(4); err == nil {
		t.Fatal("expected error when actualSize exceeds reservation")
	}
}

func TestAllocateZeroReturnsNil(t *testing.T) {
	a := NewArena()
	if got := a.Allocate(0); got != nil {
		t.Fatalf("Allocate(0) = %v, want nil", got)
	}
}
