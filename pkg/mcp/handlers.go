package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/tokenlint/pkg/catalog"
	"github.com/gnana997/tokenlint/pkg/lint"
	"github.com/gnana997/tokenlint/pkg/scene"
)

type auditResponse struct {
	Document string         `json:"document,omitempty"`
	Findings []lint.Finding `json:"findings"`
	Summary  lint.Summary   `json:"summary"`
}

type summaryResponse struct {
	Findings []lint.Finding `json:"findings"`
	Summary  lint.Summary   `json:"summary"`
}

func (s *Server) handleAuditDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := scene.DecodeDocument([]byte(raw))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	bundle := s.bundle
	if extra := req.GetString("libraries", ""); extra != "" {
		b, err := catalog.LoadBytes([]byte(extra))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid libraries: %v", err)), nil
		}
		bundle = catalog.Merge(bundle, b)
	}
	if extra := req.GetString("tokens", ""); extra != "" {
		var tokens []catalog.SavedToken
		if err := json.Unmarshal([]byte(extra), &tokens); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid tokens: %v", err)), nil
		}
		bundle = catalog.Merge(bundle, &catalog.Bundle{Tokens: tokens})
	}
	for _, problem := range bundle.Validate() {
		s.logger.Warn("catalog problem", "error", problem)
	}

	ids := req.GetStringSlice("node_ids", nil)
	findings, err := lint.AuditDocument(ctx, doc, ids, bundle, s.logger, s.lintOpts)
	if errors.Is(err, lint.ErrNoNodes) {
		return mcp.NewToolResultError(fmt.Sprintf("%v: %v", err, ids)), nil
	}
	if err != nil {
		return nil, err
	}

	summary := lint.Summarize(findings)
	recordStats(ctx, summary)
	return jsonResult(auditResponse{Document: doc.Name, Findings: findings, Summary: summary})
}

func (s *Server) handleListSuggestions(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("family")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	family, ok := catalog.ParseFamily(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown family %q", name)), nil
	}
	return jsonResult(s.index.Suggestions(family))
}

func (s *Server) handleSummarizeFindings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("findings")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var records []map[string]any
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("findings must be a JSON array of objects: %v", err)), nil
	}

	findings := lint.NormalizeRecords(records)
	summary := lint.Summarize(findings)
	recordStats(ctx, summary)
	return jsonResult(summaryResponse{Findings: findings, Summary: summary})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
