package evttype

// SubMapping is an ordered list of real indexes telling the parser how the
// columns of one dump file's cost lines map onto the canonical
// EventTypeSet.
type SubMapping struct {
	set        *EventTypeSet
	indexes    []int
	identity   bool
	firstUnused int
	nextUnused [MaxReal]int
}

// NewSubMapping builds a SubMapping for the ordered column names of one
// "events:" (or cost-line header) declaration. If create is false, any name
// not already registered in set causes the whole call to fail (returns nil,
// false) rather than mutating set. If registering new names would exceed
// MaxReal, it also fails. Otherwise, unknown names are added to set as new
// real types and their assigned index is appended to the mapping.
func (s *EventTypeSet) NewSubMapping(columnNames []string, create bool) (*SubMapping, bool) {
	if !create {
		for _, name := range columnNames {
			if _, ok := s.Type(name); !ok {
				return nil, false
			}
		}
	} else {
		newCount := 0
		for _, name := range columnNames {
			if _, ok := s.Type(name); !ok {
				newCount++
			}
		}
		if len(s.realIdx)+newCount > MaxReal {
			return nil, false
		}
	}

	sm := &SubMapping{set: s, indexes: make([]int, 0, len(columnNames))}
	for _, name := range columnNames {
		et, ok := s.Type(name)
		if !ok {
			var err error
			et, err = s.AddReal(name, name)
			if err != nil {
				return nil, false
			}
		}
		if !et.IsReal() {
			return nil, false
		}
		sm.indexes = append(sm.indexes, et.RealIndex)
	}

	sm.identity = true
	for i, idx := range sm.indexes {
		if idx != i {
			sm.identity = false
			break
		}
	}
	sm.buildUnusedChain()
	return sm, true
}

// buildUnusedChain computes the "first unused real index" linked list: the
// ascending chain of real indexes in [0, MaxReal) that this mapping's
// columns never mention, used by the parser to zero out columns a
// sub-mapping does not cover.
func (sm *SubMapping) buildUnusedChain() {
	used := make([]bool, MaxReal)
	for _, idx := range sm.indexes {
		if idx >= 0 && idx < MaxReal {
			used[idx] = true
		}
	}
	last := InvalidIndex
	sm.firstUnused = InvalidIndex
	for i := MaxReal - 1; i >= 0; i-- {
		sm.nextUnused[i] = InvalidIndex
	}
	for i := 0; i < MaxReal; i++ {
		if used[i] {
			continue
		}
		if sm.firstUnused == InvalidIndex {
			sm.firstUnused = i
		}
		if last != InvalidIndex {
			sm.nextUnused[last] = i
		}
		last = i
	}
}

// Count returns the number of columns this mapping describes.
func (sm *SubMapping) Count() int { return len(sm.indexes) }

// IsIdentity reports whether RealIndex(i) == i for every i (an optimization
// hint: no reordering needed when applying this mapping).
func (sm *SubMapping) IsIdentity() bool { return sm.identity }

// RealIndex returns the canonical real-column index that column i of this
// mapping writes to, or InvalidIndex if i is out of range.
func (sm *SubMapping) RealIndex(i int) int {
	if i < 0 || i >= len(sm.indexes) {
		return InvalidIndex
	}
	return sm.indexes[i]
}

// FirstUnused returns the smallest real index this mapping's columns never
// mention, or InvalidIndex if every real index is covered.
func (sm *SubMapping) FirstUnused() int { return sm.firstUnused }

// NextUnused continues the unused-index chain from i.
func (sm *SubMapping) NextUnused(i int) int {
	if i < 0 || i >= MaxReal {
		return InvalidIndex
	}
	return sm.nextUnused[i]
}

// Apply reorders a slice of column values (as read off a cost line, one per
// mapping column) into a canonical real-indexed array of fixed length
// MaxReal, zeroing columns the mapping does not cover.
func (sm *SubMapping) Apply(values []uint64) [MaxReal]uint64 {
	var out [MaxReal]uint64
	for i, v := range values {
		if i >= len(sm.indexes) {
			break
		}
		idx := sm.indexes[i]
		if idx >= 0 && idx < MaxReal {
			out[idx] = v
		}
	}
	return out
}
