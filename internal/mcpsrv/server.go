// Package mcpsrv exposes the query surface (cost rankings, name search,
// part activation, totals) as MCP tools over stdio, so an AI coding agent
// can interrogate a loaded profile the same way a human drives the
// interactive viewer.
package mcpsrv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/cgview/internal/costgraph"
	"github.com/standardbeagle/cgview/internal/evttype"
	"github.com/standardbeagle/cgview/internal/query"
)

// Server wraps an MCP server bound to a single loaded costgraph.Data.
type Server struct {
	data   *costgraph.Data
	server *mcp.Server
}

// New builds a Server exposing data's cost graph, registering every tool.
func New(data *costgraph.Data, version string) *Server {
	s := &Server{
		data: data,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "cgview-mcp-server",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Run serves tool calls over stdio until ctx is canceled or the transport
// closes.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "top_self",
		Description: "List the functions with the largest self cost under one event type.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"event": {Type: "string", Description: "Event type short name, e.g. \"Ir\""},
				"limit": {Type: "integer", Description: "Maximum entries to return (default 20)"},
			},
			Required: []string{"event"},
		},
	}, s.handleTopSelf)

	s.server.AddTool(&mcp.Tool{
		Name:        "top_inclusive",
		Description: "List the functions with the largest inclusive cost under one event type.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"event": {Type: "string", Description: "Event type short name, e.g. \"Ir\""},
				"limit": {Type: "integer", Description: "Maximum entries to return (default 20)"},
			},
			Required: []string{"event"},
		},
	}, s.handleTopInclusive)

	s.server.AddTool(&mcp.Tool{
		Name:        "search",
		Description: "Find functions by name, exact substring first, falling back to fuzzy matching.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"term":      {Type: "string", Description: "Name or partial name to search for"},
				"threshold": {Type: "number", Description: "Minimum fuzzy similarity 0-1 (default 0.75)"},
			},
			Required: []string{"term"},
		},
	}, s.handleSearch)

	s.server.AddTool(&mcp.Tool{
		Name:        "activate_parts",
		Description: "Restrict which loaded parts contribute to every cost aggregate.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"parts": {
					Type:        "array",
					Items:       &jsonschema.Schema{Type: "integer"},
					Description: "Part numbers to activate; every other loaded part is deactivated",
				},
			},
			Required: []string{"parts"},
		},
	}, s.handleActivateParts)

	s.server.AddTool(&mcp.Tool{
		Name:        "totals",
		Description: "Report the graph-wide total for one event type over the currently active parts.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"event": {Type: "string", Description: "Event type short name, e.g. \"Ir\""},
			},
			Required: []string{"event"},
		},
	}, s.handleTotals)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(b)}}}, nil
}

func errResult(op string, err error) (*mcp.CallToolResult, error) {
	res, marshalErr := jsonResult(map[string]interface{}{
		"success":   false,
		"operation": op,
		"error":     err.Error(),
	})
	if marshalErr != nil {
		return nil, marshalErr
	}
	res.IsError = true
	return res, nil
}

func (s *Server) eventType(name string) (*evttype.EventType, error) {
	et, ok := s.data.EventTypes.Type(name)
	if !ok {
		return nil, fmt.Errorf("unknown event type %q", name)
	}
	return et, nil
}

type topParams struct {
	Event string `json:"event"`
	Limit int    `json:"limit"`
}

func (s *Server) handleTopSelf(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p topParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errResult("top_self", err)
	}
	et, err := s.eventType(p.Event)
	if err != nil {
		return errResult("top_self", err)
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	entries := query.TopSelf(s.data, et, limit)
	return jsonResult(toolEntries(entries))
}

func (s *Server) handleTopInclusive(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p topParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errResult("top_inclusive", err)
	}
	et, err := s.eventType(p.Event)
	if err != nil {
		return errResult("top_inclusive", err)
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	entries := query.TopInclusive(s.data, et, limit)
	return jsonResult(toolEntries(entries))
}

type searchParams struct {
	Term      string  `json:"term"`
	Threshold float64 `json:"threshold"`
}

func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p searchParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errResult("search", err)
	}
	threshold := p.Threshold
	if threshold <= 0 {
		threshold = 0.75
	}
	results := query.Search(s.data, p.Term, threshold)
	out := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		out = append(out, map[string]interface{}{
			"name":   r.Function.PrettyName(),
			"object": objectName(r.Function.Object),
			"score":  r.Score,
		})
	}
	return jsonResult(out)
}

type activatePartsParams struct {
	Parts []int `json:"parts"`
}

func (s *Server) handleActivateParts(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p activatePartsParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errResult("activate_parts", err)
	}
	changed := query.ActivatePartRange(s.data, p.Parts)
	return jsonResult(map[string]interface{}{
		"changed":     changed,
		"active_part": query.ActivePartRange(s.data),
	})
}

type totalsParams struct {
	Event string `json:"event"`
}

func (s *Server) handleTotals(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p totalsParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errResult("totals", err)
	}
	et, err := s.eventType(p.Event)
	if err != nil {
		return errResult("totals", err)
	}
	return jsonResult(map[string]interface{}{
		"event": p.Event,
		"total": query.Totals(s.data, et),
	})
}

func toolEntries(entries []query.Entry) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]interface{}{
			"name":      e.Function.PrettyName(),
			"object":    objectName(e.Function.Object),
			"self":      e.Self,
			"inclusive": e.Inclusive,
		})
	}
	return out
}

func objectName(o *costgraph.Object) string {
	if o == nil {
		return ""
	}
	return o.Name
}
