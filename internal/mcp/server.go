// Package mcp provides a Model Context Protocol server for accord.
//
// It exposes catalog search, layering analysis and the curated preset list
// as MCP tools over stdio, so agent runtimes can drive the engine directly.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/scentstack/accord/internal/catalog"
	"github.com/scentstack/accord/internal/layering"
	"github.com/scentstack/accord/internal/rules"
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Catalog *catalog.Store
	Table   rules.Table
	Version string
}

// dbMu serializes tool calls that touch the database. The mcp-go library
// dispatches handlers concurrently via goroutines, and SQLite supports only
// one writer at a time.
var dbMu sync.Mutex

// NewServer creates a configured MCP server with all accord tools.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}

	s := server.NewMCPServer(
		"Accord",
		ver,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, false),
	)

	registerSearchTool(s, cfg.Catalog)
	registerAnalyzeTool(s, cfg.Catalog, cfg.Table)
	registerPresetsTool(s, cfg.Table)
	registerStatsResource(s, cfg.Catalog)

	return s
}

func registerSearchTool(s *server.MCPServer, store *catalog.Store) {
	tool := mcp.NewTool("accord_search",
		mcp.WithDescription("Search the fragrance catalog by name, brand, accord or description. Returns matching records as JSON."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query string"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default: 10, max: 50)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}

		limit := 10
		if limitVal, err := req.RequireFloat("limit"); err == nil {
			limit = int(limitVal)
			if limit > 50 {
				limit = 50
			}
			if limit <= 0 {
				limit = 10
			}
		}

		results, err := store.Search(ctx, query, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search error: %v", err)), nil
		}

		data, _ := json.MarshalIndent(results, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerAnalyzeTool(s *server.MCPServer, store *catalog.Store, table rules.Table) {
	tool := mcp.NewTool("accord_analyze",
		mcp.WithDescription("Analyze layering compatibility for 2-3 fragrances. Each name is looked up in the catalog; unknown names are analyzed by name alone. Returns the verdict (compatibility 50-100, vibe, risks, tips) as JSON."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("first",
			mcp.Required(),
			mcp.Description("Name of the first fragrance"),
		),
		mcp.WithString("second",
			mcp.Required(),
			mcp.Description("Name of the second fragrance"),
		),
		mcp.WithString("third",
			mcp.Description("Optional name of a third fragrance"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		var names []string
		for _, key := range []string{"first", "second", "third"} {
			if v, err := req.RequireString(key); err == nil && strings.TrimSpace(v) != "" {
				names = append(names, strings.TrimSpace(v))
			}
		}
		if len(names) < layering.MinSelection {
			return mcp.NewToolResultError("first and second fragrance names are required"), nil
		}

		selection := make([]layering.Fragrance, 0, len(names))
		resolved := make([]catalog.Record, 0, len(names))
		for _, name := range names {
			rec, err := store.FindByName(ctx, name)
			if err != nil || rec == nil {
				rec = &catalog.Record{Name: name}
			}
			resolved = append(resolved, *rec)
			selection = append(selection, *rec)
		}

		verdict, err := layering.Evaluate(selection, table)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("analyze error: %v", err)), nil
		}

		out := struct {
			Fragrances []catalog.Record `json:"fragrances"`
			Verdict    layering.Verdict `json:"verdict"`
		}{Fragrances: resolved, Verdict: verdict}

		data, _ := json.MarshalIndent(out, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerPresetsTool(s *server.MCPServer, table rules.Table) {
	tool := mcp.NewTool("accord_presets",
		mcp.WithDescription("List the curated layering presets: named fragrance combinations with hand-authored verdicts."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, _ := json.MarshalIndent(table.Presets, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerStatsResource(s *server.MCPServer, store *catalog.Store) {
	resource := mcp.NewResource(
		"accord://stats",
		"Catalog Statistics",
		mcp.WithResourceDescription("Fragrance catalog size, distinct brand count and database size."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		stats, err := store.Stats(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading catalog stats: %w", err)
		}
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "accord://stats",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
