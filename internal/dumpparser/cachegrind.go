package dumpparser

import "fmt"

// crossCheckSummary compares a part's accumulated totals against the
// dump's own "summary:" line, if one was present. Cachegrind and Callgrind
// both use this line as a self-check the profiler computes at dump time;
// a mismatch never invalidates the load (the detailed cost lines are the
// source of truth) but is worth surfacing as a warning.
func (st *state) crossCheckSummary() {
	if st.declaredSummary == nil || st.subMapping == nil {
		return
	}
	for i, want := range st.declaredSummary {
		if i >= st.subMapping.Count() {
			break
		}
		got := uint64(st.part.Totals.Get(st.subMapping.RealIndex(i)))
		if got != want {
			st.warn(fmt.Sprintf("summary mismatch on column %d: declared %d, computed %d", i, want, got))
		}
	}
}
