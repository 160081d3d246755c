package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convobase/internal/model"
)

func messagesFromContents(contents ...string) []model.Message {
	messages := make([]model.Message, len(contents))
	for i, content := range contents {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		messages[i] = model.Message{
			Role:       role,
			Content:    content,
			OrderIndex: i + 1,
		}
	}
	return messages
}

func TestBuildHistoryWindowsLastMessages(t *testing.T) {
	messages := messagesFromContents("one", "two", "three", "four", "five")

	history := buildHistory(messages, 3)
	require.Len(t, history, 3)
	assert.Equal(t, "three", history[0].Content)
	assert.Equal(t, "four", history[1].Content)
	assert.Equal(t, "five", history[2].Content)
}

func TestBuildHistoryReturnsAllWhenFewer(t *testing.T) {
	messages := messagesFromContents("one", "two")

	history := buildHistory(messages, 10)
	require.Len(t, history, 2)
	assert.Equal(t, "one", history[0].Content)
	assert.Equal(t, model.RoleUser, history[0].Role)
	assert.Equal(t, model.RoleAssistant, history[1].Role)
}

func TestBuildHistoryEmptyTranscript(t *testing.T) {
	history := buildHistory(nil, 5)
	assert.Empty(t, history)
}

func TestLastUserMessageScansFromEnd(t *testing.T) {
	messages := []model.Message{
		{Role: model.RoleUser, Content: "first question"},
		{Role: model.RoleAssistant, Content: "first answer"},
		{Role: model.RoleUser, Content: "second question"},
		{Role: model.RoleAssistant, Content: "second answer"},
	}
	assert.Equal(t, "second question", lastUserMessage(messages))

	onlyAssistant := []model.Message{{Role: model.RoleAssistant, Content: "hi"}}
	assert.Equal(t, "", lastUserMessage(onlyAssistant))
}

func TestScoreDocumentsCountsDistinctTermsOnce(t *testing.T) {
	docs := []model.Document{
		{Name: "a", RawText: "The quick brown fox. Quick quick quick."},
	}

	scored := scoreDocuments("quick fox fox", docs)
	require.Len(t, scored, 1)
	// "quick" and "fox" each count once despite repetition.
	assert.Equal(t, 2, scored[0].score)
}

func TestScoreDocumentsFiltersShortTokens(t *testing.T) {
	docs := []model.Document{
		{Name: "a", RawText: "it is an ox in a box"},
	}

	// All query tokens are <= 2 chars, so the term set is empty.
	scored := scoreDocuments("it is an ox", docs)
	require.Len(t, scored, 1)
	assert.Equal(t, 0, scored[0].score)
}

func TestScoreDocumentsExcludesTextless(t *testing.T) {
	docs := []model.Document{
		{Name: "empty"},
		{Name: "full", RawText: "some content here"},
	}

	scored := scoreDocuments("content", docs)
	require.Len(t, scored, 1)
	assert.Equal(t, "full", scored[0].doc.Name)
	assert.Equal(t, 1, scored[0].score)
}

func TestAssembleContextOrdersByScoreStable(t *testing.T) {
	docs := []model.Document{
		{Name: "A", RawText: "alpha beta"},
		{Name: "B", RawText: "alpha beta"},
		{Name: "C", RawText: "alpha beta gamma delta epsilon"},
	}

	result := assembleContext("alpha beta gamma delta epsilon", docs, 100000)
	require.NotNil(t, result)

	posA := strings.Index(*result, "Document: A")
	posB := strings.Index(*result, "Document: B")
	posC := strings.Index(*result, "Document: C")
	require.GreaterOrEqual(t, posA, 0)
	require.GreaterOrEqual(t, posB, 0)
	require.GreaterOrEqual(t, posC, 0)

	// C scores highest; A and B tie and keep their encounter order.
	assert.Less(t, posC, posA)
	assert.Less(t, posA, posB)
}

func TestAssembleContextIncludesZeroScoreDocuments(t *testing.T) {
	docs := []model.Document{
		{Name: "relevant", RawText: "contains the answer"},
		{Name: "irrelevant", RawText: "nothing of interest"},
	}

	result := assembleContext("answer", docs, 100000)
	require.NotNil(t, result)
	assert.Contains(t, *result, "Document: relevant (score=1)")
	assert.Contains(t, *result, "Document: irrelevant (score=0)")
	assert.Contains(t, *result, contextSeparator)
}

func TestAssembleContextTruncatesExactly(t *testing.T) {
	docs := []model.Document{
		{Name: "big", RawText: strings.Repeat("x", 500)},
	}

	full := assembleContext("query", docs, 100000)
	require.NotNil(t, full)
	require.Greater(t, len(*full), 100)

	cut := assembleContext("query", docs, 100)
	require.NotNil(t, cut)
	assert.Len(t, *cut, 100)
	assert.Equal(t, (*full)[:100], *cut)
}

func TestAssembleContextAbsentCases(t *testing.T) {
	assert.Nil(t, assembleContext("query", nil, 1000))

	textless := []model.Document{{Name: "a"}, {Name: "b"}}
	assert.Nil(t, assembleContext("query", textless, 1000))
}
