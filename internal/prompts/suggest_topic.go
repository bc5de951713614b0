// Package prompts implements MCP prompt handlers.
//
// Prompts are user-invoked templates: they return messages for the host to
// send to the model rather than performing side effects.
package prompts

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/HendryAvila/memorydoc/internal/document"
	"github.com/HendryAvila/memorydoc/internal/memory"
	"github.com/mark3labs/mcp-go/mcp"
)

// SuggestTopicName is the prompt name.
const SuggestTopicName = "suggest_topic"

// SuggestTopicPrompt handles the suggest_topic MCP prompt.
// It reads every stored memory and asks the model to propose the next
// conversation topic from them.
type SuggestTopicPrompt struct {
	reader document.Reader
}

// NewSuggestTopicPrompt creates a SuggestTopicPrompt.
func NewSuggestTopicPrompt(reader document.Reader) *SuggestTopicPrompt {
	return &SuggestTopicPrompt{reader: reader}
}

// Definition returns the MCP prompt definition for registration.
func (p *SuggestTopicPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt(SuggestTopicName,
		mcp.WithPromptDescription(
			"Suggest a topic for the next conversation, based on the memories stored so far. "+
				"Looks for unresolved questions, interests that weren't fully explored, "+
				"and upcoming events mentioned earlier.",
		),
		mcp.WithArgument("focus",
			mcp.ArgumentDescription("Optional area to lean toward (e.g. 'work', 'health')"),
		),
		mcp.WithArgument("max_tokens",
			mcp.ArgumentDescription("Optional cap on how much history to include; the newest entries are kept"),
		),
	)
}

// Handle processes the suggest_topic prompt request.
func (p *SuggestTopicPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	history, err := p.reader.ReadText(ctx)
	if err != nil {
		return textResult(fmt.Sprintf("Failed to retrieve memories: %v", err)), nil
	}
	if strings.TrimSpace(history) == "" {
		return textResult("No memories stored yet."), nil
	}

	focus := strings.TrimSpace(req.Params.Arguments["focus"])

	var notice string
	if budget, err := strconv.Atoi(strings.TrimSpace(req.Params.Arguments["max_tokens"])); err == nil && budget > 0 {
		var dropped int
		history, dropped = memory.TrimToBudget(history, budget)
		if dropped > 0 {
			notice = memory.BudgetNotice(dropped, budget)
		}
	}

	return textResult(buildSuggestion(history, focus, notice)), nil
}

func buildSuggestion(history, focus, notice string) string {
	var sb strings.Builder
	sb.WriteString("Based on the conversation history below, suggest a topic for our next conversation.\n\n")

	if focus != "" {
		sb.WriteString(fmt.Sprintf("Lean toward topics related to: %s\n\n", focus))
	}

	sb.WriteString("1. PRIMARY TOPIC\n")
	sb.WriteString("- The most compelling topic to pick up now, and why now\n")
	sb.WriteString("- Consider unresolved questions, unexplored interests, and events that may have happened since\n\n")
	sb.WriteString("2. SUPPORTING EVIDENCE\n")
	sb.WriteString("- 2-3 relevant quotes from the history\n")
	sb.WriteString("- How much time has passed since the related entries (use their timestamps)\n\n")
	sb.WriteString("3. APPROACHES\n")
	sb.WriteString("- 2-3 angles to explore the topic, with an opening question for each\n\n")
	sb.WriteString("4. POTENTIAL INSIGHTS\n")
	sb.WriteString("- What new understanding or concrete outcome could come out of it\n\n")
	sb.WriteString("Answer in a natural, conversational tone.\n\n")
	sb.WriteString("CONVERSATION HISTORY:\n")
	if notice != "" {
		sb.WriteString(notice)
		sb.WriteString("\n")
	}
	sb.WriteString(history)
	sb.WriteString("\n")

	return sb.String()
}

func textResult(text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: "Next conversation topic",
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(text),
			},
		},
	}
}
