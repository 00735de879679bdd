package evttype

import "testing"

func TestSubMappingIdentity(t *testing.T) {
	s := NewEventTypeSet()
	sm, ok := s.NewSubMapping([]string{"Ir", "Dr", "Dw"}, true)
	if !ok {
		t.Fatal("expected submapping creation to succeed")
	}
	if !sm.IsIdentity() {
		t.Fatal("expected identity mapping for first-seen columns")
	}
	for i := 0; i < 3; i++ {
		if sm.RealIndex(i) != i {
			t.Fatalf("RealIndex(%d) = %d, want %d", i, sm.RealIndex(i), i)
		}
	}
}

func TestSubMappingReorder(t *testing.T) {
	s := NewEventTypeSet()
	s.AddReal("Ir", "Ir")
	s.AddReal("Dr", "Dr")
	// A later file orders its columns differently: Dr first, Ir second.
	sm, ok := s.NewSubMapping([]string{"Dr", "Ir"}, true)
	if !ok {
		t.Fatal("expected submapping creation to succeed")
	}
	if sm.IsIdentity() {
		t.Fatal("expected non-identity mapping")
	}
	if sm.RealIndex(0) != 1 || sm.RealIndex(1) != 0 {
		t.Fatalf("unexpected reorder: %d,%d", sm.RealIndex(0), sm.RealIndex(1))
	}
	out := sm.Apply([]uint64{30, 100}) // Dr=30, Ir=100
	if out[0] != 100 || out[1] != 30 {
		t.Fatalf("Apply mismatch: %v", out)
	}
}

func TestSubMappingNoCreateUnknown(t *testing.T) {
	s := NewEventTypeSet()
	_, ok := s.NewSubMapping([]string{"Bogus"}, false)
	if ok {
		t.Fatal("expected failure for unknown name with create=false")
	}
}

func TestSubMappingOverflow(t *testing.T) {
	s := NewEventTypeSet()
	names := make([]string, MaxReal+1)
	for i := range names {
		names[i] = string(rune('A' + i))
	}
	_, ok := s.NewSubMapping(names, true)
	if ok {
		t.Fatal("expected overflow to fail submapping creation")
	}
}

func TestSubMappingFirstUnusedChain(t *testing.T) {
	s := NewEventTypeSet()
	sm, ok := s.NewSubMapping([]string{"Ir"}, true) // only real index 0 used
	if !ok {
		t.Fatal("expected success")
	}
	if sm.FirstUnused() != 1 {
		t.Fatalf("FirstUnused() = %d, want 1", sm.FirstUnused())
	}
	if sm.NextUnused(1) != 2 {
		t.Fatalf("NextUnused(1) = %d, want 2", sm.NextUnused(1))
	}
}

// TestPropertySubMappingRoundTrip checks that RealIndex(i) points to an
// EventTypeSet entry whose name equals the i-th column token.
func TestPropertySubMappingRoundTrip(t *testing.T) {
	s := NewEventTypeSet()
	cols := []string{"Ir", "Dr", "Dw"}
	sm, ok := s.NewSubMapping(cols, true)
	if !ok {
		t.Fatal("expected success")
	}
	for i, name := range cols {
		idx := sm.RealIndex(i)
		et := s.RealType(idx)
		if et == nil || et.ShortName != name {
			t.Fatalf("column %d: expected %q, got %v", i, name, et)
		}
	}
}
