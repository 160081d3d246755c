package ai

import (
	"context"
	"fmt"
	"strings"

	"convobase/internal/model"
)

// DummyGenerator is the reference backend. It calls no external service:
// the reply echoes the latest user message, and token usage is a rough
// whitespace estimate over the rendered prompt and the reply.
type DummyGenerator struct{}

func (g *DummyGenerator) Generate(ctx context.Context, history []ChatTurn, systemPrompt, contextText string) (string, Usage, error) {
	if err := ctx.Err(); err != nil {
		return "", Usage{}, err
	}

	lastUser := ""
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == model.RoleUser {
			lastUser = history[i].Content
			break
		}
	}

	replyParts := []string{
		"This is a dummy LLM reply.",
		fmt.Sprintf("You said: %q", lastUser),
	}
	if contextText != "" {
		replyParts = append(replyParts,
			"Some retrieved context was provided, but since this is a dummy model, "+
				"the answer is not actually grounded in that content.")
	}
	replyText := strings.Join(replyParts, "\n\n")

	promptText := renderPrompt(history, systemPrompt, contextText)
	usage := Usage{
		PromptTokens:     estimateTokens(promptText),
		CompletionTokens: estimateTokens(replyText),
	}
	return replyText, usage, nil
}

// renderPrompt flattens system prompt, context, and role-tagged history into
// the text the token estimate is computed over. Absent sections are omitted.
func renderPrompt(history []ChatTurn, systemPrompt, contextText string) string {
	var parts []string

	if systemPrompt != "" {
		parts = append(parts, "[SYSTEM]\n"+systemPrompt)
	}
	if contextText != "" {
		parts = append(parts, "[CONTEXT]\n"+contextText)
	}
	if len(history) > 0 {
		lines := make([]string, 0, len(history))
		for _, turn := range history {
			lines = append(lines, fmt.Sprintf("[%s] %s", strings.ToUpper(string(turn.Role)), turn.Content))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}

	return strings.Join(parts, "\n\n")
}

// estimateTokens is a rough whitespace-token count, at least 1 for any
// non-empty text. Not tied to any real tokenizer.
func estimateTokens(text string) int {
	if text == "" {
		return 0
	}
	n := len(strings.Fields(text))
	if n < 1 {
		return 1
	}
	return n
}
