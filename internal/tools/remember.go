package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/memorydoc/internal/activity"
	"github.com/HendryAvila/memorydoc/internal/document"
	"github.com/HendryAvila/memorydoc/internal/memory"
	"github.com/HendryAvila/memorydoc/internal/observe"
	"github.com/mark3labs/mcp-go/mcp"
)

// RememberToolName is the only tool this server exposes.
const RememberToolName = "remember_this"

const argContent = "content"

// RememberTool handles the remember_this MCP tool.
type RememberTool struct {
	appender   document.Appender
	documentID string
	now        memory.Clock
	obs        *observe.Observer
	recorder   activity.Recorder
}

// NewRememberTool creates a RememberTool that appends through appender.
// documentID is recorded with each ledger entry.
func NewRememberTool(appender document.Appender, documentID string, obs *observe.Observer) *RememberTool {
	if obs == nil {
		obs = observe.Discard()
	}
	return &RememberTool{
		appender:   appender,
		documentID: documentID,
		obs:        obs,
	}
}

// SetRecorder enables the activity ledger. Nil disables it.
func (t *RememberTool) SetRecorder(r activity.Recorder) {
	t.recorder = r
}

// SetClock overrides the time source.
func (t *RememberTool) SetClock(c memory.Clock) {
	t.now = c
}

// Definition returns the MCP tool definition for remember_this.
func (t *RememberTool) Definition() mcp.Tool {
	return mcp.NewTool(RememberToolName,
		mcp.WithDescription(
			"Append a memory to the user's memory document. Use this when the user asks you to "+
				"remember something, or at the end of a conversation worth keeping. "+
				"Each call adds exactly one timestamped entry; existing entries are never changed.",
		),
		mcp.WithString(argContent,
			mcp.Required(),
			mcp.Description(
				"The text to remember. For conversation summaries write a short narrative: "+
					"what was discussed, decisions made, quotes worth keeping, follow-ups agreed on, "+
					"and ideas for a future conversation. Plain text; the server adds the timestamp.",
			),
		),
	)
}

// Handle processes the remember_this tool call.
func (t *RememberTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := req.GetArguments()[argContent]
	if !ok {
		return invalidArguments("'content' is required"), nil
	}
	content, ok := raw.(string)
	if !ok {
		return invalidArguments(fmt.Sprintf("'content' must be a string, got %T", raw)), nil
	}

	entry, err := memory.NewEntry(t.now, content)
	if err != nil {
		return invalidArguments("'content' cannot be empty"), nil
	}

	log := t.obs.LogCtx(ctx)
	appendErr := t.appender.AppendText(ctx, entry.Text())
	t.record(ctx, entry, appendErr)

	if appendErr != nil {
		log.Error().Err(appendErr).Str("entry", entry.ID).Msg("failed to append memory")
		return mcp.NewToolResultError(fmt.Sprintf("Failed to store memory: %v", appendErr)), nil
	}

	log.Info().Str("entry", entry.ID).Int("length", entry.Length()).Msg("memory stored")
	return mcp.NewToolResultText(fmt.Sprintf("Memory stored at %s.", entry.Stamp())), nil
}

// record writes the attempt to the ledger. Ledger failures are logged and
// otherwise ignored: the document append already happened (or failed) and
// its outcome is what the caller gets.
func (t *RememberTool) record(ctx context.Context, entry memory.Entry, appendErr error) {
	if t.recorder == nil {
		return
	}

	rec := activity.Record{
		EntryID:    entry.ID,
		DocumentID: t.documentID,
		Status:     activity.StatusStored,
		Length:     entry.Length(),
	}
	if appendErr != nil {
		rec.Status = activity.StatusFailed
		rec.Error = appendErr.Error()
	}

	if err := t.recorder.Record(ctx, rec); err != nil {
		t.obs.Log().Warn().Err(err).Str("entry", entry.ID).Msg("activity ledger write failed")
	}
}
