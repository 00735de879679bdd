package query

import (
	"testing"

	"github.com/standardbeagle/cgview/internal/costgraph"
	"github.com/standardbeagle/cgview/internal/subcost"
)

func setCost(c *costgraph.CostArray, v uint64) {
	c.AddAt(0, subcost.SubCost(v))
}

func buildData(t *testing.T) *costgraph.Data {
	t.Helper()
	data := costgraph.NewData()
	if _, err := data.EventTypes.AddReal("Ir", "Instruction Fetch"); err != nil {
		t.Fatalf("AddReal: %v", err)
	}
	part := costgraph.NewPart(1, "x")
	obj := data.Object("prog")

	parseLine := data.Function("parseLine", obj)
	parseFile := data.Function("parseFile", obj)
	render := data.Function("render", obj)

	c1 := &costgraph.CostArray{}
	setCost(c1, 100)
	parseLine.PartFunction(part).AddCost(c1)
	part.Totals.AddArray(c1)

	c2 := &costgraph.CostArray{}
	setCost(c2, 300)
	parseFile.PartFunction(part).AddCost(c2)
	part.Totals.AddArray(c2)

	c3 := &costgraph.CostArray{}
	setCost(c3, 10)
	render.PartFunction(part).AddCost(c3)
	part.Totals.AddArray(c3)

	data.AddPart(part)
	return data
}

func TestTopSelfOrdersDescending(t *testing.T) {
	data := buildData(t)
	ir, _ := data.EventTypes.Type("Ir")

	top := TopSelf(data, ir, 2)
	if len(top) != 2 {
		t.Fatalf("len = %d, want 2", len(top))
	}
	if top[0].Function.Name != "parseFile" || top[0].Self != 300 {
		t.Errorf("top[0] = %+v, want parseFile/300", top[0])
	}
	if top[1].Function.Name != "parseLine" || top[1].Self != 100 {
		t.Errorf("top[1] = %+v, want parseLine/100", top[1])
	}
}

func TestSearchExactSubstringMatch(t *testing.T) {
	data := buildData(t)
	results := Search(data, "parse", 0.8)
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	for _, r := range results {
		if r.Score != 1.0 {
			t.Errorf("substring match score = %v, want 1.0", r.Score)
		}
	}
}

func TestSearchFallsBackToFuzzyMatch(t *testing.T) {
	data := buildData(t)
	// "parsline" has no substring hit but is a near-miss for parseLine.
	results := Search(data, "parsline", 0.6)
	if len(results) == 0 {
		t.Fatal("expected at least one fuzzy match")
	}
	found := false
	for _, r := range results {
		if r.Function.Name == "parseLine" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected parseLine among fuzzy matches, got %+v", results)
	}
}

func TestSearchEmptyTermReturnsNil(t *testing.T) {
	data := buildData(t)
	if got := Search(data, "   ", 0.8); got != nil {
		t.Errorf("Search(whitespace) = %v, want nil", got)
	}
}

func TestActivatePartRangeWrapsData(t *testing.T) {
	data := costgraph.NewData()
	p1 := costgraph.NewPart(1, "a")
	p2 := costgraph.NewPart(2, "b")
	data.AddPart(p1)
	data.AddPart(p2)

	if !ActivatePartRange(data, []int{1}) {
		t.Fatal("expected ActivatePartRange to report a change")
	}
	if got := ActivePartRange(data); got != "1" {
		t.Errorf("ActivePartRange() = %q, want %q", got, "1")
	}
}

func TestTotalsSumsAcrossActiveParts(t *testing.T) {
	data := buildData(t)
	ir, _ := data.EventTypes.Type("Ir")
	if got := Totals(data, ir); got != 410 {
		t.Errorf("Totals = %d, want 410", got)
	}
}

func TestTotalsExcludesDeactivatedParts(t *testing.T) {
	data := costgraph.NewData()
	if _, err := data.EventTypes.AddReal("Ir", "Instruction Fetch"); err != nil {
		t.Fatalf("AddReal: %v", err)
	}
	p1 := costgraph.NewPart(1, "a")
	p1.Totals.AddAt(0, subcost.SubCost(100))
	p2 := costgraph.NewPart(2, "b")
	p2.Totals.AddAt(0, subcost.SubCost(300))
	data.AddPart(p1)
	data.AddPart(p2)

	ir, _ := data.EventTypes.Type("Ir")
	if got := Totals(data, ir); got != 400 {
		t.Fatalf("Totals with both parts active = %d, want 400", got)
	}

	ActivatePartRange(data, []int{1})
	if got := Totals(data, ir); got != 100 {
		t.Errorf("Totals after deactivating part 2 = %d, want 100", got)
	}
}
