// Package mcp provides an MCP (Model Context Protocol) server exposing the
// save system as tools, so agents can inspect and edit game saves.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alpkeskin/gotoon"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/yoanbernabeu/dontlookdown/save"
)

// Server wraps the MCP server around a save system.
type Server struct {
	mcpServer *server.MCPServer
	saves     *save.System
}

// LoadResult is the tool output for save_load.
type LoadResult struct {
	Key   string `json:"key"`
	Found bool   `json:"found"`
	Value any    `json:"value"`
}

// ListResult is the tool output for save_list.
type ListResult struct {
	Namespace string   `json:"namespace"`
	Keys      []string `json:"keys"`
}

// encodeOutput encodes data in the specified format (json or toon).
func encodeOutput(data any, format string) (string, error) {
	switch format {
	case "toon":
		return gotoon.Encode(data)
	default: // "json"
		jsonBytes, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(jsonBytes), nil
	}
}

// NewServer creates a new MCP server over saves.
func NewServer(saves *save.System) *Server {
	s := &Server{
		saves: saves,
	}

	s.mcpServer = server.NewMCPServer(
		"dontlookdown",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	storeTool := mcp.NewTool("save_store",
		mcp.WithDescription("Store a JSON value under a save key, replacing any previous value."),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Save key, without the namespace prefix"),
		),
		mcp.WithString("data",
			mcp.Required(),
			mcp.Description("JSON text of the value to store, e.g. {\"level\": 3, \"hp\": 80}"),
		),
	)
	s.mcpServer.AddTool(storeTool, s.handleStore)

	loadTool := mcp.NewTool("save_load",
		mcp.WithDescription("Load the value stored under a save key. Returns found=false and a null value when the key was never saved."),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Save key, without the namespace prefix"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'json' (default) or 'toon' (token-efficient)"),
		),
	)
	s.mcpServer.AddTool(loadTool, s.handleLoad)

	deleteTool := mcp.NewTool("save_delete",
		mcp.WithDescription("Delete a save key. Deleting a missing key succeeds."),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Save key, without the namespace prefix"),
		),
	)
	s.mcpServer.AddTool(deleteTool, s.handleDelete)

	listTool := mcp.NewTool("save_list",
		mcp.WithDescription("List every save key in the game's namespace."),
		mcp.WithString("format",
			mcp.Description("Output format: 'json' (default) or 'toon' (token-efficient)"),
		),
	)
	s.mcpServer.AddTool(listTool, s.handleList)
}

func (s *Server) handleStore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key parameter is required"), nil
	}
	data, err := request.RequireString("data")
	if err != nil {
		return mcp.NewToolResultError("data parameter is required"), nil
	}

	if err := s.saves.SaveRaw(ctx, key, []byte(data)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("saved %s", key)), nil
}

func (s *Server) handleLoad(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key parameter is required"), nil
	}
	format := request.GetString("format", "json")
	if format != "json" && format != "toon" {
		return mcp.NewToolResultError("format must be 'json' or 'toon'"), nil
	}

	var value any
	found, err := s.saves.LoadInto(ctx, key, &value)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	output, err := encodeOutput(LoadResult{Key: key, Found: found, Value: value}, format)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(output), nil
}

func (s *Server) handleDelete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key parameter is required"), nil
	}

	if err := s.saves.Delete(ctx, key); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted %s", key)), nil
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := request.GetString("format", "json")
	if format != "json" && format != "toon" {
		return mcp.NewToolResultError("format must be 'json' or 'toon'"), nil
	}

	keys, err := s.saves.Keys(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	output, err := encodeOutput(ListResult{Namespace: s.saves.Namespace(), Keys: keys}, format)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(output), nil
}

// Serve starts the MCP server using stdio.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}
