package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/tokenlint/pkg/auditlog"
	"github.com/gnana997/tokenlint/pkg/catalog"
	"github.com/gnana997/tokenlint/pkg/util"
)

// --- helpers ---

const testDocument = `{
  "name": "Checkout",
  "nodes": [
    {"id": "1:1", "name": "Card", "type": "FRAME", "layoutMode": "HORIZONTAL", "itemSpacing": 16,
     "children": [
       {"id": "1:2", "name": "Total", "type": "TEXT", "characters": "Total",
        "fontName": {"family": "Arial", "style": "Regular"}, "fontSize": 14}
     ]},
    {"id": "2:1", "name": "Swatch", "type": "RECTANGLE",
     "fills": [{"type": "SOLID", "color": {"r": 1, "g": 0, "b": 0}}], "fillStyleId": "S1"},
    {"id": "3:1", "name": "Button", "type": "INSTANCE", "mainComponentId": "C:gone"}
  ]
}`

func testBundle() *catalog.Bundle {
	return &catalog.Bundle{Libraries: []catalog.Library{{
		ID:   "lib:core",
		Name: "Core",
		Fills: []catalog.StyleEntry{
			{ID: "S:brand", Name: "Brand/Primary"},
			{ID: "S:surface", Name: "Surface/Default"},
		},
		Text:   []catalog.StyleEntry{{ID: "T:body", Name: "Body"}},
		Radius: []catalog.VariableEntry{{ID: "V:r8", Name: "radius/md", Value: 8}},
		Gaps:   []catalog.VariableEntry{{ID: "V:g16", Name: "gap/md", Value: 16}},
	}}}
}

func testServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = util.DiscardLogger()
	}
	return NewServer(testBundle(), opts)
}

func callTool(t *testing.T, s *Server, req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	var handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

	switch req.Params.Name {
	case "audit_document":
		handler = s.handleAuditDocument
	case "list_suggestions":
		handler = s.handleListSuggestions
	case "summarize_findings":
		handler = s.handleSummarizeFindings
	default:
		t.Fatalf("unknown tool: %s", req.Params.Name)
	}

	result, err := s.loggingMiddleware()(handler)(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

type auditPayload struct {
	Document string           `json:"document"`
	Findings []map[string]any `json:"findings"`
	Summary  struct {
		Total  int            `json:"total"`
		ByType map[string]int `json:"by_type"`
	} `json:"summary"`
}

func decodeAudit(t *testing.T, result *mcp.CallToolResult) auditPayload {
	t.Helper()
	require.False(t, result.IsError, resultJSON(t, result))
	var p auditPayload
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &p))
	return p
}

// --- audit_document ---

func TestHandleAuditDocument(t *testing.T) {
	s := testServer(Options{})
	p := decodeAudit(t, callTool(t, s, makeRequest("audit_document", map[string]any{"document": testDocument})))

	assert.Equal(t, "Checkout", p.Document)
	require.Len(t, p.Findings, 4)
	assert.Equal(t, "restore-component", p.Findings[0]["type"])
	assert.Equal(t, "3:1", p.Findings[0]["nodeId"])
	assert.Equal(t, "gap", p.Findings[1]["type"])
	assert.Equal(t, "16px", p.Findings[1]["value"])
	assert.Equal(t, "text", p.Findings[2]["type"])
	assert.Equal(t, "Arial 14px", p.Findings[2]["value"])
	assert.Equal(t, "1:1", p.Findings[2]["parentFrameId"])
	assert.Equal(t, "fill", p.Findings[3]["type"])
	assert.Equal(t, "#FF0000", p.Findings[3]["value"])

	assert.Equal(t, 4, p.Summary.Total)
	assert.Equal(t, 1, p.Summary.ByType["fill"])
}

func TestHandleAuditDocument_ExtraTokens(t *testing.T) {
	s := testServer(Options{})
	p := decodeAudit(t, callTool(t, s, makeRequest("audit_document", map[string]any{
		"document": testDocument,
		"tokens":   `[{"name": "red", "value": {"r": 1, "g": 0, "b": 0, "a": 1}}]`,
		"node_ids": []any{"2:1"},
	})))

	assert.Empty(t, p.Findings)
}

func TestHandleAuditDocument_ExtraLibraries(t *testing.T) {
	s := testServer(Options{})
	p := decodeAudit(t, callTool(t, s, makeRequest("audit_document", map[string]any{
		"document":  testDocument,
		"libraries": `{"id": "lib:local", "name": "Local", "fills": [{"id": "S1", "name": "Red"}]}`,
		"node_ids":  []any{"2:1"},
	})))

	assert.Empty(t, p.Findings)
}

func TestHandleAuditDocument_Errors(t *testing.T) {
	s := testServer(Options{})
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing document", nil, "document"},
		{"invalid document", map[string]any{"document": "{"}, "failed to parse scene document"},
		{"invalid libraries", map[string]any{"document": testDocument, "libraries": "[1]"}, "invalid libraries"},
		{"invalid tokens", map[string]any{"document": testDocument, "tokens": "{}"}, "invalid tokens"},
		{"unknown node ids", map[string]any{"document": testDocument, "node_ids": []any{"9:9"}}, "none of the requested nodes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, s, makeRequest("audit_document", tt.args))
			assert.True(t, result.IsError)
			assert.Contains(t, resultJSON(t, result), tt.want)
		})
	}
}

// --- list_suggestions ---

func TestHandleListSuggestions(t *testing.T) {
	s := testServer(Options{})
	result := callTool(t, s, makeRequest("list_suggestions", map[string]any{"family": "fill"}))
	assert.False(t, result.IsError)

	var list []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "S:brand", list[0]["id"])
	assert.Equal(t, "S:surface", list[1]["id"])
}

func TestHandleListSuggestions_VariableFamilies(t *testing.T) {
	s := testServer(Options{})
	result := callTool(t, s, makeRequest("list_suggestions", map[string]any{"family": "radius"}))

	var list []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &list))
	require.Len(t, list, 1)
	assert.Equal(t, float64(8), list[0]["value"])

	result = callTool(t, s, makeRequest("list_suggestions", map[string]any{"family": "padding"}))
	assert.Equal(t, "[]", resultJSON(t, result))
}

func TestHandleListSuggestions_UnknownFamily(t *testing.T) {
	s := testServer(Options{})
	result := callTool(t, s, makeRequest("list_suggestions", map[string]any{"family": "shadow"}))
	assert.True(t, result.IsError)
	assert.Contains(t, resultJSON(t, result), "unknown family")
}

// --- summarize_findings ---

func TestHandleSummarizeFindings(t *testing.T) {
	s := testServer(Options{})
	result := callTool(t, s, makeRequest("summarize_findings", map[string]any{
		"findings": `[
			{"type": "fill", "nodeId": "1:1", "nodeName": "Card"},
			{"type": "radius", "node": {"id": "1:1", "name": "Card"}},
			{"message": 42}
		]`,
	}))
	require.False(t, result.IsError)

	var p struct {
		Findings []map[string]any `json:"findings"`
		Summary  struct {
			Total  int              `json:"total"`
			ByType map[string]int   `json:"by_type"`
			Nodes  []map[string]any `json:"nodes"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &p))
	require.Len(t, p.Findings, 3)
	assert.Equal(t, "unknown", p.Findings[2]["type"])
	assert.Equal(t, "42", p.Findings[2]["message"])
	assert.Equal(t, 3, p.Summary.Total)
	assert.Equal(t, map[string]int{"fill": 1, "radius": 1, "unknown": 1}, p.Summary.ByType)
	require.Len(t, p.Summary.Nodes, 2)
	assert.Equal(t, float64(2), p.Summary.Nodes[0]["findings"])
}

func TestHandleSummarizeFindings_Invalid(t *testing.T) {
	s := testServer(Options{})
	result := callTool(t, s, makeRequest("summarize_findings", map[string]any{"findings": `{"type": "fill"}`}))
	assert.True(t, result.IsError)
}

// --- middleware ---

func TestLoggingMiddleware_WritesAuditLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	logger, err := auditlog.Open(path)
	require.NoError(t, err)

	s := testServer(Options{AuditLog: logger})
	callTool(t, s, makeRequest("audit_document", map[string]any{"document": testDocument}))
	callTool(t, s, makeRequest("list_suggestions", map[string]any{"family": "nope"}))
	require.NoError(t, logger.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []auditlog.Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e auditlog.Entry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		entries = append(entries, e)
	}
	require.Len(t, entries, 2)

	assert.Equal(t, "audit_document", entries[0].Operation)
	assert.Equal(t, auditlog.SourceMCP, entries[0].Source)
	assert.Equal(t, 4, entries[0].Findings)
	assert.Equal(t, 4, entries[0].Nodes)
	assert.Equal(t, 1, entries[0].ByType["gap"])
	assert.Contains(t, entries[0].Params, "document_len")
	assert.Positive(t, entries[0].ResponseBytes)
	assert.Nil(t, entries[0].Error)

	assert.Equal(t, "list_suggestions", entries[1].Operation)
	require.NotNil(t, entries[1].Error)
	assert.Contains(t, *entries[1].Error, "unknown family")
}

func TestLoggingMiddleware_NilAuditLog(t *testing.T) {
	s := testServer(Options{})
	result := callTool(t, s, makeRequest("list_suggestions", map[string]any{"family": "text"}))
	assert.False(t, result.IsError)
}
