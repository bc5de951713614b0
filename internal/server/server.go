// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools, prompts and resources that depend on
// abstractions. No business logic lives here, only wiring.
package server

import (
	"context"
	"fmt"

	"github.com/HendryAvila/memorydoc/internal/activity"
	"github.com/HendryAvila/memorydoc/internal/config"
	"github.com/HendryAvila/memorydoc/internal/document"
	"github.com/HendryAvila/memorydoc/internal/observe"
	"github.com/HendryAvila/memorydoc/internal/prompts"
	"github.com/HendryAvila/memorydoc/internal/resources"
	"github.com/HendryAvila/memorydoc/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// Name is the MCP server name reported on initialize.
const Name = "memory"

// Version is set at build time via ldflags.
var Version = "dev"

// Deps are the resolved dependencies New needs.
type Deps struct {
	Docs     document.Service
	Activity *activity.Store // nil when the ledger is disabled
	Observer *observe.Observer
}

// New creates the MCP server with the tool, prompt and resources
// registered, and returns the tool catalog alongside it for the transport.
func New(cfg config.Config, deps Deps) (*server.MCPServer, *tools.Catalog) {
	obs := deps.Observer
	if obs == nil {
		obs = observe.Discard()
	}
	if obs.DocumentID() != cfg.DocumentID {
		obs = obs.ForDocument(cfg.DocumentID)
	}

	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Tool ---

	remember := tools.NewRememberTool(deps.Docs, cfg.DocumentID, obs)
	var src resources.ActivitySource
	if deps.Activity != nil {
		remember.SetRecorder(deps.Activity)
		src = deps.Activity
	}

	catalog := tools.NewCatalog(remember)
	catalog.Register(s)

	// --- Prompts ---

	suggest := prompts.NewSuggestTopicPrompt(deps.Docs)
	s.AddPrompt(suggest.Definition(), suggest.Handle)

	// --- Resources ---

	res := resources.NewHandler(deps.Docs, src)
	s.AddResource(res.DocumentResource(), res.HandleDocument)
	if res.HasActivity() {
		s.AddResource(res.ActivityResource(), res.HandleActivity)
	}

	return s, catalog
}

// Open resolves the concrete dependencies for cfg. The activity ledger is
// optional: if it cannot be opened the server runs without it.
//
// The returned cleanup function is always non-nil and safe to call.
func Open(ctx context.Context, cfg config.Config, obs *observe.Observer) (Deps, func(), error) {
	if obs == nil {
		obs = observe.Discard()
	}

	gdocs, err := document.NewGoogleDocs(ctx, cfg.CredentialsPath, cfg.DocumentID, obs)
	if err != nil {
		return Deps{}, noop, fmt.Errorf("creating document client: %w", err)
	}

	deps := Deps{Docs: gdocs, Observer: obs}
	cleanup := noop

	if cfg.Activity {
		ledger, err := activity.New(cfg.ActivityDBPath())
		if err != nil {
			obs.Log().Warn().Err(err).Msg("activity ledger disabled")
		} else {
			deps.Activity = ledger
			cleanup = func() {
				if err := ledger.Close(); err != nil {
					obs.Log().Warn().Err(err).Msg("activity ledger close")
				}
			}
		}
	}

	return deps, cleanup, nil
}

// noop is the default cleanup when nothing needs closing.
func noop() {}

// serverInstructions tells the model how to use this server.
func serverInstructions() string {
	return `This server keeps the user's long-term memories in a document.

- Call remember_this when the user asks you to remember something, or when a
  conversation produced something worth keeping (decisions, plans, follow-ups,
  personal context). Pass the text in "content"; the server adds the timestamp.
- Each call appends exactly one entry. Entries are never edited or removed, so
  write a complete, self-contained note rather than several fragments.
- The suggest_topic prompt reads all stored memories and proposes what to talk
  about next. The memory://document resource returns the raw text.`
}
