// Package assembler builds the facilitator prompt for one turn under a fixed
// context budget. Categories are filled in priority order; whatever does not
// fit is trimmed or omitted, never an error.
package assembler

import (
	"fmt"
	"strings"

	"discusschat-be/pkg/llm"
)

const (
	// TokenBudget is the context ceiling in token-equivalents.
	TokenBudget = 8000

	// HistoryWindow is the maximum number of prior turns carried verbatim.
	HistoryWindow = 8
)

// Turn is a prior exchange, already mapped to LLM roles.
type Turn struct {
	Role    string
	Content string
}

// Chunk is a retrieved knowledge-base excerpt with its relevance score.
type Chunk struct {
	Content string
	Score   float64
}

type AssembleInput struct {
	System      string
	Question    string
	UserMessage string
	History     []Turn   // chronological, oldest first
	Notes       []string // chronological, oldest first
	Chunks      []Chunk  // descending relevance
}

// estimateTokens over-counts slightly on purpose: staying under the real
// model limit matters more than using every last token.
func estimateTokens(s string) int {
	return len(s)/4 + 1
}

// Assemble fills the budget in priority order: the system instructions,
// current question, and incoming message are never truncated; then recent
// turns (oldest dropped first), then notes (oldest truncated first), then
// retrieved chunks (least relevant dropped first).
func Assemble(in AssembleInput) []llm.Message {
	budget := TokenBudget
	budget -= estimateTokens(in.System)
	budget -= estimateTokens(in.Question)
	budget -= estimateTokens(in.UserMessage)

	history := in.History
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}
	for len(history) > 0 {
		cost := 0
		for _, t := range history {
			cost += estimateTokens(t.Content)
		}
		if cost <= budget {
			budget -= cost
			break
		}
		history = history[1:]
	}

	notes := in.Notes
	for len(notes) > 0 {
		cost := 0
		for _, n := range notes {
			cost += estimateTokens(n)
		}
		if cost <= budget {
			budget -= cost
			break
		}
		notes = notes[1:]
	}

	chunks := in.Chunks
	for len(chunks) > 0 {
		cost := 0
		for _, c := range chunks {
			cost += estimateTokens(c.Content)
		}
		if cost <= budget {
			budget -= cost
			break
		}
		chunks = chunks[:len(chunks)-1]
	}

	var sb strings.Builder
	sb.WriteString(in.System)

	if len(chunks) > 0 {
		sb.WriteString("\n\nBackground material (relevance-scored):")
		for _, c := range chunks {
			sb.WriteString(fmt.Sprintf("\n- [relevance %.2f] %s", c.Score, c.Content))
		}
	}

	if len(notes) > 0 {
		sb.WriteString("\n\nNotes gathered so far:")
		for _, n := range notes {
			sb.WriteString("\n- " + n)
		}
	}

	sb.WriteString("\n\nCurrent question: " + in.Question)

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: sb.String()})
	for _, t := range history {
		messages = append(messages, llm.Message{Role: t.Role, Content: t.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: in.UserMessage})
	return messages
}
