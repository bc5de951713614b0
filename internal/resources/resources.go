// Package resources implements MCP resource handlers.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (memory://...).
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/memorydoc/internal/activity"
	"github.com/HendryAvila/memorydoc/internal/document"
	"github.com/mark3labs/mcp-go/mcp"
)

// Resource URIs.
const (
	DocumentURI = "memory://document"
	ActivityURI = "memory://activity"
)

// recentLimit is how many ledger rows the activity resource returns.
const recentLimit = 20

// ActivitySource is the read side of the activity ledger.
type ActivitySource interface {
	Recent(ctx context.Context, limit int) ([]activity.Record, error)
	Stats(ctx context.Context) (*activity.Stats, error)
}

// Handler manages resource endpoints.
type Handler struct {
	reader   document.Reader
	activity ActivitySource
}

// NewHandler creates a resource Handler. src may be nil when the activity
// ledger is disabled.
func NewHandler(reader document.Reader, src ActivitySource) *Handler {
	return &Handler{reader: reader, activity: src}
}

// HasActivity reports whether the activity resource should be registered.
func (h *Handler) HasActivity() bool {
	return h.activity != nil
}

// DocumentResource returns the definition for the memory document.
func (h *Handler) DocumentResource() mcp.Resource {
	return mcp.NewResource(
		DocumentURI,
		"Memory Document",
		mcp.WithResourceDescription("Plain text of every memory stored so far, oldest first"),
		mcp.WithMIMEType("text/plain"),
	)
}

// HandleDocument returns the document text.
func (h *Handler) HandleDocument(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	text, err := h.reader.ReadText(ctx)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     text,
		},
	}, nil
}

// ActivityResource returns the definition for the append ledger.
func (h *Handler) ActivityResource() mcp.Resource {
	return mcp.NewResource(
		ActivityURI,
		"Memory Activity",
		mcp.WithResourceDescription("Recent remember_this append attempts and their outcome"),
		mcp.WithMIMEType("application/json"),
	)
}

type activityView struct {
	Stats  *activity.Stats   `json:"stats"`
	Recent []activity.Record `json:"recent"`
}

// HandleActivity returns ledger stats and the most recent records as JSON.
func (h *Handler) HandleActivity(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.activity == nil {
		return errorResource(req.Params.URI, "activity ledger is disabled"), nil
	}

	stats, err := h.activity.Stats(ctx)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	recent, err := h.activity.Recent(ctx, recentLimit)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if recent == nil {
		recent = []activity.Record{}
	}

	data, err := json.MarshalIndent(activityView{Stats: stats, Recent: recent}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling activity: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
