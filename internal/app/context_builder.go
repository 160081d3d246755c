package app

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"convobase/internal/ai"
	"convobase/internal/model"
)

const contextSeparator = "\n\n----- DOCUMENT SEPARATOR -----\n\n"

// buildHistory returns the last max messages as role/content pairs in their
// original order. A non-positive max means no windowing.
func buildHistory(messages []model.Message, max int) []ai.ChatTurn {
	start := 0
	if max > 0 && len(messages) > max {
		start = len(messages) - max
	}

	history := make([]ai.ChatTurn, 0, len(messages)-start)
	for _, m := range messages[start:] {
		history = append(history, ai.ChatTurn{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return history
}

// lastUserMessage returns the content of the most recent user message,
// scanning from the end; empty string if there is none.
func lastUserMessage(messages []model.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == model.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

type scoredDocument struct {
	doc   model.Document
	score int
}

// scoreDocuments lexically scores candidates against the query: lowercased
// whitespace tokens longer than two characters form the query-term set, and
// each term found anywhere in a document's lowercased text contributes one
// point. Documents without text are excluded entirely, not scored as zero.
func scoreDocuments(query string, docs []model.Document) []scoredDocument {
	terms := make(map[string]struct{})
	for _, w := range strings.Fields(query) {
		w = strings.ToLower(w)
		if utf8.RuneCountInString(w) > 2 {
			terms[w] = struct{}{}
		}
	}

	var scored []scoredDocument
	for _, doc := range docs {
		if doc.RawText == "" {
			continue
		}
		text := strings.ToLower(doc.RawText)
		score := 0
		for term := range terms {
			if strings.Contains(text, term) {
				score++
			}
		}
		scored = append(scored, scoredDocument{doc: doc, score: score})
	}
	return scored
}

// assembleContext renders the linked documents into a single context string:
// scored against the query, sorted by score descending (stable, so ties keep
// their encounter order), every scored document included, hard-truncated to
// maxChars characters. Returns nil when no linked document has text.
func assembleContext(query string, docs []model.Document, maxChars int) *string {
	if len(docs) == 0 {
		return nil
	}

	scored := scoreDocuments(query, docs)
	if len(scored) == 0 {
		return nil
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	blocks := make([]string, 0, len(scored))
	for _, s := range scored {
		blocks = append(blocks, fmt.Sprintf("Document: %s (score=%d)\n%s", s.doc.Name, s.score, s.doc.RawText))
	}

	combined := strings.Join(blocks, contextSeparator)
	if runes := []rune(combined); maxChars > 0 && len(runes) > maxChars {
		combined = string(runes[:maxChars])
	}
	return &combined
}
