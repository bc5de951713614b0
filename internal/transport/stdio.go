// Package transport runs the MCP server over newline-delimited JSON-RPC on
// a reader/writer pair (stdin/stdout in production).
//
// Messages are handled strictly one at a time: a line is read, handled to
// completion, and its response written before the next line is read.
package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/HendryAvila/memorydoc/internal/observe"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	jsonrpcVersion     = "2.0"
	codeParseError     = -32700
	codeInvalidRequest = -32600

	methodToolsCall = "tools/call"
)

// MessageHandler handles one raw JSON-RPC message. *server.MCPServer
// satisfies it.
type MessageHandler interface {
	HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage
}

// ToolDispatcher is the tool adapter. *tools.Catalog satisfies it.
type ToolDispatcher interface {
	Has(name string) bool
	CallTool(ctx context.Context, name string, args map[string]any) *mcp.CallToolResult
}

// Stdio is a sequential line-oriented transport.
type Stdio struct {
	handler MessageHandler
	tools   ToolDispatcher
	obs     *observe.Observer

	// mu is held while a message is handled.
	mu sync.Mutex
}

// NewStdio creates a Stdio transport.
func NewStdio(handler MessageHandler, tools ToolDispatcher, obs *observe.Observer) *Stdio {
	if obs == nil {
		obs = observe.Discard()
	}
	return &Stdio{handler: handler, tools: tools, obs: obs}
}

type envelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type callParams struct {
	Name string `json:"name"`
}

type toolCallResponse struct {
	JSONRPC string              `json:"jsonrpc"`
	ID      json.RawMessage     `json:"id"`
	Result  *mcp.CallToolResult `json:"result"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Error   rpcError        `json:"error"`
}

// Listen reads messages from in and writes responses to out until in is
// exhausted (returns nil) or ctx is cancelled (returns ctx.Err()).
//
// Lines have no length limit. Cancelling ctx stops new messages from being
// handled; a message already being handled runs to completion.
func (s *Stdio) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	encoder := json.NewEncoder(out)

	for {
		line, readErr := reader.ReadBytes('\n')
		if line = bytes.TrimSpace(line); len(line) > 0 {
			if err := s.serveLine(ctx, line, encoder); err != nil {
				return err
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading input: %w", readErr)
		}
	}
}

// Idle returns a channel that is closed once no message is being handled.
// After ctx passed to Listen is cancelled, no message starts once Idle has
// closed.
func (s *Stdio) Idle() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		close(done)
	}()
	return done
}

func (s *Stdio) serveLine(ctx context.Context, line []byte, encoder *json.Encoder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	resp := s.handle(context.WithoutCancel(ctx), line)
	if resp == nil {
		return nil
	}
	if err := encoder.Encode(resp); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

// handle returns the response for one line, or nil for notifications.
func (s *Stdio) handle(ctx context.Context, line []byte) any {
	if !json.Valid(line) {
		s.obs.Log().Warn().Int("bytes", len(line)).Msg("unparseable message")
		return newErrorResponse(codeParseError, "Parse error")
	}

	// Batches and bare values are valid JSON but not a request.
	var env envelope
	if line[0] != '{' || json.Unmarshal(line, &env) != nil {
		s.obs.Log().Warn().Int("bytes", len(line)).Msg("message is not a request object")
		return newErrorResponse(codeInvalidRequest, "Invalid Request")
	}

	// Unknown tool names are answered here with an error result. Handed to
	// the MCP server they would become a JSON-RPC error instead.
	if env.Method == methodToolsCall && len(env.ID) > 0 {
		var p callParams
		if err := json.Unmarshal(env.Params, &p); err == nil && !s.tools.Has(p.Name) {
			s.obs.Log().Warn().Str("tool", p.Name).Msg("call to unknown tool")
			return toolCallResponse{
				JSONRPC: jsonrpcVersion,
				ID:      env.ID,
				Result:  s.tools.CallTool(ctx, p.Name, nil),
			}
		}
	}

	msg := s.handler.HandleMessage(ctx, json.RawMessage(line))
	if msg == nil {
		return nil
	}
	return msg
}

func newErrorResponse(code int, message string) errorResponse {
	return errorResponse{
		JSONRPC: jsonrpcVersion,
		ID:      json.RawMessage("null"),
		Error:   rpcError{Code: code, Message: message},
	}
}
