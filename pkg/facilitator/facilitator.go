// Package facilitator wraps the LLM behind typed turn, finalization, and
// synthesis operations with strict output validation: malformed model output
// is an error here, never a silently defaulted struct.
package facilitator

import (
	"context"
	"errors"
	"fmt"

	"discusschat-be/pkg/llm"
)

// ErrMalformedOutput means the model response could not be parsed into the
// required strict-JSON shape even after a retry.
var ErrMalformedOutput = errors.New("malformed facilitator output")

// Judgment is the structured result of one facilitated turn.
type Judgment struct {
	Reply          string
	Breakdown      []string
	Clarifications []string
	NewInformation bool
	NotesEntry     string
	Justification  string
}

// Report is the cross-participant synthesis result.
type Report struct {
	Consensus          []string
	Disagreement       []string
	SentimentStrength  []string
	Confusion          []string
	MissingInformation []string
}

// Facilitator runs the three LLM-backed operations of a guided dialogue.
type Facilitator interface {
	// Judge produces the structured reply for one participant turn.
	Judge(ctx context.Context, messages []llm.Message) (*Judgment, error)

	// Finalize turns the accumulated notes into the closing document.
	Finalize(ctx context.Context, system string, notes []string) (string, error)

	// Synthesize aggregates finalized documents into a structured report.
	Synthesize(ctx context.Context, system string, documents []string) (*Report, error)
}

type llmFacilitator struct {
	provider llm.LLMProvider
}

func New(provider llm.LLMProvider) Facilitator {
	return &llmFacilitator{provider: provider}
}

func (f *llmFacilitator) Judge(ctx context.Context, messages []llm.Message) (*Judgment, error) {
	var lastErr error
	// One retry covers both transport hiccups and an occasional
	// non-conforming completion.
	for attempt := 0; attempt < 2; attempt++ {
		raw, err := f.provider.Chat(ctx, messages)
		if err != nil {
			lastErr = err
			continue
		}
		judgment, err := parseJudgment(raw)
		if err != nil {
			lastErr = err
			continue
		}
		return judgment, nil
	}
	return nil, fmt.Errorf("facilitator judge failed: %w", lastErr)
}

func (f *llmFacilitator) Finalize(ctx context.Context, system string, notes []string) (string, error) {
	messages := []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: joinNotes(notes)},
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		raw, err := f.provider.Chat(ctx, messages)
		if err != nil {
			lastErr = err
			continue
		}
		if raw == "" {
			lastErr = fmt.Errorf("%w: empty finalization document", ErrMalformedOutput)
			continue
		}
		return raw, nil
	}
	return "", fmt.Errorf("facilitator finalize failed: %w", lastErr)
}

func (f *llmFacilitator) Synthesize(ctx context.Context, system string, documents []string) (*Report, error) {
	messages := []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: joinDocuments(documents)},
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		raw, err := f.provider.Chat(ctx, messages)
		if err != nil {
			lastErr = err
			continue
		}
		report, err := parseReport(raw)
		if err != nil {
			lastErr = err
			continue
		}
		return report, nil
	}
	return nil, fmt.Errorf("facilitator synthesize failed: %w", lastErr)
}

func joinNotes(notes []string) string {
	out := "Running notes from the conversation, in order:\n"
	for i, n := range notes {
		out += fmt.Sprintf("%d. %s\n", i+1, n)
	}
	return out
}

func joinDocuments(documents []string) string {
	out := ""
	for i, doc := range documents {
		out += fmt.Sprintf("--- Participant %d final document ---\n%s\n\n", i+1, doc)
	}
	return out
}
