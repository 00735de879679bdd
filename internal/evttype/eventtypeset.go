package evttype

import "fmt"

// EventTypeSet is a per-Data registry binding event-type short names to real
// column indexes, plus the derived types resolved against it. It is never
// process-global — each Data owns one.
type EventTypeSet struct {
	real    [MaxReal]*EventType
	realIdx map[string]int
	derived []*EventType
	byName  map[string]*EventType

	inParsing map[string]bool
}

// NewEventTypeSet creates an empty set with no real or derived types.
func NewEventTypeSet() *EventTypeSet {
	return &EventTypeSet{
		realIdx: make(map[string]int),
		byName:  make(map[string]*EventType),
	}
}

// RealCount returns the number of assigned real indexes.
func (s *EventTypeSet) RealCount() int {
	return len(s.realIdx)
}

// AddReal registers a real event type and assigns it the next free column.
// Returns an error if the set is already at MaxReal capacity or the name is
// already registered as a derived type.
func (s *EventTypeSet) AddReal(shortName, longName string) (*EventType, error) {
	if existing, ok := s.byName[shortName]; ok {
		if existing.IsReal() {
			return existing, nil
		}
		return nil, fmt.Errorf("event type %q already registered as derived", shortName)
	}
	if len(s.realIdx) >= MaxReal {
		return nil, fmt.Errorf("real event type capacity (%d) exceeded", MaxReal)
	}
	idx := len(s.realIdx)
	et := &EventType{ShortName: shortName, LongName: longName, RealIndex: idx, resolved: true}
	s.real[idx] = et
	s.realIdx[shortName] = idx
	s.byName[shortName] = et
	return et, nil
}

// AddDerived registers a derived event type with the given formula. The
// formula is not resolved until first use, but its resolver is wired
// immediately so SubCost calls succeed transparently.
func (s *EventTypeSet) AddDerived(shortName, longName, formula string) (*EventType, error) {
	if _, ok := s.byName[shortName]; ok {
		return nil, fmt.Errorf("event type %q already registered", shortName)
	}
	et := &EventType{ShortName: shortName, LongName: longName, Formula: formula, RealIndex: InvalidIndex, resolver: s}
	s.derived = append(s.derived, et)
	s.byName[shortName] = et
	return et, nil
}

// Type looks up a registered event type (real or derived) by short name.
func (s *EventTypeSet) Type(shortName string) (*EventType, bool) {
	et, ok := s.byName[shortName]
	return et, ok
}

// RealType returns the real event type at column idx, or nil.
func (s *EventTypeSet) RealType(idx int) *EventType {
	if idx < 0 || idx >= MaxReal {
		return nil
	}
	return s.real[idx]
}

// RealIndex returns the column index bound to shortName, or InvalidIndex.
func (s *EventTypeSet) RealIndex(shortName string) int {
	if idx, ok := s.realIdx[shortName]; ok {
		return idx
	}
	return InvalidIndex
}

// Derived returns every registered derived event type.
func (s *EventTypeSet) Derived() []*EventType {
	return s.derived
}

// TryAddKnownDerived attempts to add every known derived event type (see
// known.go) whose formula resolves entirely against the reals currently
// registered in s. Types already present, or whose formula cannot resolve
// yet, are silently skipped — callers may call this again after adding more
// reals to pick up newly-resolvable derived types.
func (s *EventTypeSet) TryAddKnownDerived() {
	for _, kd := range KnownDerivedTypes {
		if _, ok := s.byName[kd.ShortName]; ok {
			continue
		}
		et, err := s.AddDerived(kd.ShortName, kd.LongName, kd.Formula)
		if err != nil {
			continue
		}
		if err := s.resolveFormula(et); err != nil {
			// Drop it again; it will be retried on the next call once its
			// dependencies are registered.
			delete(s.byName, kd.ShortName)
			s.derived = s.derived[:len(s.derived)-1]
		}
	}
}
