package prompts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

type fakeReader struct {
	text  string
	err   error
	calls int
}

func (f *fakeReader) ReadText(context.Context) (string, error) {
	f.calls++
	return f.text, f.err
}

func promptText(t *testing.T, r *mcp.GetPromptResult) string {
	t.Helper()
	if r == nil || len(r.Messages) != 1 {
		t.Fatalf("expected exactly one message, got %+v", r)
	}
	msg := r.Messages[0]
	if msg.Role != mcp.RoleUser {
		t.Errorf("role = %s, want user", msg.Role)
	}
	tc, ok := msg.Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", msg.Content)
	}
	return tc.Text
}

func TestSuggestTopicPrompt_Definition(t *testing.T) {
	def := NewSuggestTopicPrompt(&fakeReader{}).Definition()
	if def.Name != "suggest_topic" {
		t.Errorf("name = %q, want suggest_topic", def.Name)
	}
	if def.Description == "" {
		t.Error("description should not be empty")
	}
	if len(def.Arguments) != 2 || def.Arguments[0].Name != "focus" || def.Arguments[1].Name != "max_tokens" {
		t.Fatalf("arguments = %+v, want [focus max_tokens]", def.Arguments)
	}
	for _, arg := range def.Arguments {
		if arg.Required {
			t.Errorf("%s should be optional", arg.Name)
		}
	}
}

func TestSuggestTopicPrompt_IncludesHistory(t *testing.T) {
	reader := &fakeReader{text: "[2026-03-14 09:26:53] met with Alice about Q3 plan"}
	p := NewSuggestTopicPrompt(reader)

	result, err := p.Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := promptText(t, result)
	if !strings.Contains(text, "CONVERSATION HISTORY:\n[2026-03-14 09:26:53] met with Alice about Q3 plan") {
		t.Errorf("history missing from prompt:\n%s", text)
	}
	if !strings.Contains(text, "PRIMARY TOPIC") {
		t.Error("prompt should carry analysis instructions")
	}
	if strings.Contains(text, "Lean toward") {
		t.Error("no focus line expected without a focus argument")
	}
	if reader.calls != 1 {
		t.Errorf("reads = %d, want 1", reader.calls)
	}
}

func TestSuggestTopicPrompt_Focus(t *testing.T) {
	p := NewSuggestTopicPrompt(&fakeReader{text: "[2026-03-14 09:26:53] x"})

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"focus": " work "}

	result, err := p.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := promptText(t, result); !strings.Contains(text, "Lean toward topics related to: work\n") {
		t.Errorf("focus line missing:\n%s", text)
	}
}

func TestSuggestTopicPrompt_EmptyDocument(t *testing.T) {
	p := NewSuggestTopicPrompt(&fakeReader{text: " \n "})

	result, err := p.Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := promptText(t, result); text != "No memories stored yet." {
		t.Errorf("text = %q", text)
	}
}

func TestSuggestTopicPrompt_ReadError(t *testing.T) {
	p := NewSuggestTopicPrompt(&fakeReader{err: errors.New("403 forbidden")})

	result, err := p.Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("read failures should be reported in the message, got error: %v", err)
	}
	text := promptText(t, result)
	if !strings.HasPrefix(text, "Failed to retrieve memories") || !strings.Contains(text, "403 forbidden") {
		t.Errorf("text = %q", text)
	}
}

func TestSuggestTopicPrompt_MaxTokensKeepsNewest(t *testing.T) {
	history := "[2026-03-01 09:00:00] " + strings.Repeat("old ", 50) + "\n[2026-03-03 09:00:00] newest"
	p := NewSuggestTopicPrompt(&fakeReader{text: history})

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"max_tokens": "10"}

	result, err := p.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := promptText(t, result)
	if strings.Contains(text, "old old") {
		t.Error("oldest entry should be dropped")
	}
	if !strings.Contains(text, "[2026-03-03 09:00:00] newest") {
		t.Error("newest entry should be kept")
	}
	if !strings.Contains(text, "Oldest 1 entries omitted") {
		t.Errorf("expected budget notice:\n%s", text)
	}
}

func TestSuggestTopicPrompt_InvalidMaxTokensIgnored(t *testing.T) {
	history := "[2026-03-01 09:00:00] " + strings.Repeat("old ", 50)
	p := NewSuggestTopicPrompt(&fakeReader{text: history})

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"max_tokens": "lots"}

	result, _ := p.Handle(context.Background(), req)
	if text := promptText(t, result); !strings.Contains(text, history) {
		t.Error("full history expected when max_tokens is not a number")
	}
}
