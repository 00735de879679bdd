package mcpsrv

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/cgview/internal/costgraph"
)

func buildData(t *testing.T) *costgraph.Data {
	t.Helper()
	data := costgraph.NewData()
	if _, err := data.EventTypes.AddReal("Ir", "Instruction reads"); err != nil {
		t.Fatalf("AddReal: %v", err)
	}

	part := costgraph.NewPart(1, "test.callgrind")
	obj := data.Object("prog")

	parseLine := data.Function("parseLine", obj)
	parseFile := data.Function("parseFile", obj)

	var c1, c2 costgraph.CostArray
	c1.Set(0, 100)
	c2.Set(0, 300)

	parseLine.PartFunction(part).AddCost(&c1)
	part.Totals.AddAt(0, 100)

	parseFile.PartFunction(part).AddCost(&c2)
	part.Totals.AddAt(0, 300)

	data.AddPart(part)
	return data
}

func callTool(t *testing.T, handler func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error), params interface{}) map[string]interface{} {
	t.Helper()
	raw, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	res, err := handler(context.Background(), &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{Arguments: raw}})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("content length = %d, want 1", len(res.Content))
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] type = %T, want *mcp.TextContent", res.Content[0])
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(text.Text), &out); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return out
}

func TestHandleTopSelfRanksDescending(t *testing.T) {
	s := &Server{data: buildData(t)}
	raw, _ := json.Marshal(topParams{Event: "Ir"})
	res, err := s.handleTopSelf(context.Background(), &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{Arguments: raw}})
	if err != nil {
		t.Fatalf("handleTopSelf: %v", err)
	}
	text := res.Content[0].(*mcp.TextContent).Text
	var entries []map[string]interface{}
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0]["name"] != "parseFile" {
		t.Errorf("entries[0].name = %v, want parseFile", entries[0]["name"])
	}
}

func TestHandleTopSelfUnknownEventErrors(t *testing.T) {
	s := &Server{data: buildData(t)}
	raw, _ := json.Marshal(topParams{Event: "NoSuchEvent"})
	res, err := s.handleTopSelf(context.Background(), &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{Arguments: raw}})
	if err != nil {
		t.Fatalf("handleTopSelf: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected IsError = true for unknown event type")
	}
}

func TestHandleSearchFindsSubstringMatch(t *testing.T) {
	s := &Server{data: buildData(t)}
	raw, _ := json.Marshal(searchParams{Term: "parseL"})
	res, err := s.handleSearch(context.Background(), &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{Arguments: raw}})
	if err != nil {
		t.Fatalf("handleSearch: %v", err)
	}
	var results []map[string]interface{}
	if err := json.Unmarshal([]byte(res.Content[0].(*mcp.TextContent).Text), &results); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(results) != 1 || results[0]["name"] != "parseLine" {
		t.Fatalf("results = %v, want a single parseLine match", results)
	}
}

func TestHandleActivatePartsReportsActiveRange(t *testing.T) {
	s := &Server{data: buildData(t)}
	out := callTool(t, s.handleActivateParts, activatePartsParams{Parts: []int{1}})
	if out["active_part"] != "1" {
		t.Errorf("active_part = %v, want \"1\"", out["active_part"])
	}
}

func TestHandleTotalsSumsActiveParts(t *testing.T) {
	s := &Server{data: buildData(t)}
	out := callTool(t, s.handleTotals, totalsParams{Event: "Ir"})
	total, ok := out["total"].(float64)
	if !ok || total != 400 {
		t.Errorf("total = %v, want 400", out["total"])
	}
}
