// Package query implements the read-side operations driven against a
// loaded costgraph.Data: ranked cost lists, name search (exact then fuzzy),
// and the active-part-range controls used to restrict which loaded parts
// contribute to every aggregate.
package query

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/standardbeagle/cgview/internal/costgraph"
	"github.com/standardbeagle/cgview/internal/evttype"
)

// Entry pairs a Function with its self/inclusive cost under one event type,
// as returned by TopSelf and TopInclusive.
type Entry struct {
	Function  *costgraph.Function
	Self      uint64
	Inclusive uint64
}

func collect(data *costgraph.Data, et *evttype.EventType) []Entry {
	funcs := data.AllFunctions()
	out := make([]Entry, 0, len(funcs))
	for _, f := range funcs {
		out = append(out, Entry{
			Function:  f,
			Self:      uint64(f.Self().SubCost(et)),
			Inclusive: uint64(f.Inclusive().SubCost(et)),
		})
	}
	return out
}

// TopSelf returns the n functions with the largest self cost under et,
// descending. n <= 0 returns every function sorted this way.
func TopSelf(data *costgraph.Data, et *evttype.EventType, n int) []Entry {
	entries := collect(data, et)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Self > entries[j].Self })
	return truncate(entries, n)
}

// TopInclusive returns the n functions with the largest inclusive cost
// under et, descending. n <= 0 returns every function sorted this way.
func TopInclusive(data *costgraph.Data, et *evttype.EventType, n int) []Entry {
	entries := collect(data, et)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Inclusive > entries[j].Inclusive })
	return truncate(entries, n)
}

func truncate(entries []Entry, n int) []Entry {
	if n > 0 && n < len(entries) {
		return entries[:n]
	}
	return entries
}

// SearchResult is one name-search hit. Score is 1.0 for an exact or
// substring match, and the Jaro-Winkler similarity (0-1) for a fuzzy hit.
type SearchResult struct {
	Function *costgraph.Function
	Score    float64
}

// Search looks up functions by name. It first tries a case-insensitive
// substring match against every function's name, which always scores 1.0.
// If that finds nothing, it falls back to Jaro-Winkler fuzzy matching via
// go-edlib, keeping only names scoring at or above threshold, so a search
// with a typo still finds its target. Results are sorted by score
// descending, then by name.
func Search(data *costgraph.Data, term string, threshold float64) []SearchResult {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	lower := strings.ToLower(term)
	var exact []SearchResult
	for _, f := range data.AllFunctions() {
		if strings.Contains(strings.ToLower(f.Name), lower) {
			exact = append(exact, SearchResult{Function: f, Score: 1.0})
		}
	}
	if len(exact) > 0 {
		sortResults(exact)
		return exact
	}

	var fuzzy []SearchResult
	for _, f := range data.AllFunctions() {
		score, err := edlib.StringsSimilarity(lower, strings.ToLower(f.Name), edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if float64(score) >= threshold {
			fuzzy = append(fuzzy, SearchResult{Function: f, Score: float64(score)})
		}
	}
	sortResults(fuzzy)
	return fuzzy
}

func sortResults(results []SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Function.Name < results[j].Function.Name
	})
}

// ActivatePartRange restricts which loaded parts contribute to every cost
// aggregate to exactly those named in numbers, invalidating cached
// aggregates if the active set actually changed.
func ActivatePartRange(data *costgraph.Data, numbers []int) bool {
	return data.ActivatePartRange(numbers)
}

// ActivePartRange formats the currently active part numbers as compact
// ranges, e.g. "1-3;7".
func ActivePartRange(data *costgraph.Data) string {
	return data.ActivePartRange()
}

// Totals returns the graph-wide total for et, summed over every active
// part. Data.Totals itself accumulates every loaded part unconditionally,
// so this sums ActiveParts directly rather than reading that field.
func Totals(data *costgraph.Data, et *evttype.EventType) uint64 {
	var sum costgraph.CostArray
	for _, p := range data.ActiveParts() {
		sum.AddArray(&p.Totals)
	}
	return uint64(sum.SubCost(et))
}
