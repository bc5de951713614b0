// Package tools implements the MCP tool adapter.
//
// Each tool is a struct that receives its dependencies through its
// constructor and exposes Definition() and Handle(). The Catalog is the
// fixed set of tools the server offers and the single place that turns
// tool names into handlers.
//
// Domain failures (unknown tool, bad arguments, remote errors) are always
// returned as error results, never as Go errors, so the protocol layer
// always gets a well-formed response.
package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var (
	// ErrUnknownTool prefixes the result for a name not in the catalog.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidArguments prefixes the result for a malformed payload.
	ErrInvalidArguments = errors.New("invalid arguments")
)

// Tool is an MCP tool handler.
type Tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// Catalog is the immutable set of tools exposed by the server.
type Catalog struct {
	tools  []Tool
	byName map[string]Tool
}

// NewCatalog builds a catalog. Later tools with a duplicate name are ignored.
func NewCatalog(tools ...Tool) *Catalog {
	c := &Catalog{byName: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		name := t.Definition().Name
		if _, dup := c.byName[name]; dup {
			continue
		}
		c.tools = append(c.tools, t)
		c.byName[name] = t
	}
	return c
}

// ListTools returns the tool descriptors in registration order.
func (c *Catalog) ListTools() []mcp.Tool {
	out := make([]mcp.Tool, 0, len(c.tools))
	for _, t := range c.tools {
		out = append(out, t.Definition())
	}
	return out
}

// Has reports whether name is a known tool.
func (c *Catalog) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// CallTool dispatches by name.
func (c *Catalog) CallTool(ctx context.Context, name string, args map[string]any) *mcp.CallToolResult {
	t, ok := c.byName[name]
	if !ok {
		return UnknownToolResult(name)
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, _ := c.handler(t)(ctx, req)
	return result
}

// Register adds every tool to the MCP server.
func (c *Catalog) Register(s *server.MCPServer) {
	for _, t := range c.tools {
		s.AddTool(t.Definition(), c.handler(t))
	}
}

// handler wraps Handle so a Go error or nil result still becomes an error
// result.
func (c *Catalog) handler(t Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := t.Handle(ctx, req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if result == nil {
			return mcp.NewToolResultError(fmt.Sprintf("tool %s returned no result", req.Params.Name)), nil
		}
		return result, nil
	}
}

// UnknownToolResult is the error result for a tool name not in the catalog.
func UnknownToolResult(name string) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%v: %s", ErrUnknownTool, name))
}

func invalidArguments(detail string) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%v: %s", ErrInvalidArguments, detail))
}
