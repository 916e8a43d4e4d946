package facilitator

import (
	"context"
	"errors"
	"testing"

	"discusschat-be/pkg/llm"
)

type scriptedProvider struct {
	responses []string
	errs      []error
	calls     int
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	i := p.calls
	p.calls++
	var err error
	if i < len(p.errs) {
		err = p.errs[i]
	}
	var resp string
	if i < len(p.responses) {
		resp = p.responses[i]
	}
	return resp, err
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}})
}

const validJudgment = `{"reply": "ok", "new_information": true, "notes_entry": "n"}`

func TestJudgeRetriesOnceOnTransportFailure(t *testing.T) {
	provider := &scriptedProvider{
		responses: []string{"", validJudgment},
		errs:      []error{errors.New("connection refused"), nil},
	}

	judgment, err := New(provider).Judge(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if judgment.Reply != "ok" {
		t.Errorf("Reply = %q", judgment.Reply)
	}
	if provider.calls != 2 {
		t.Errorf("calls = %d, want 2", provider.calls)
	}
}

func TestJudgeRetriesOnceOnMalformedOutput(t *testing.T) {
	provider := &scriptedProvider{
		responses: []string{"not json", validJudgment},
	}

	if _, err := New(provider).Judge(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("calls = %d, want 2", provider.calls)
	}
}

func TestJudgeSecondFailureSurfaces(t *testing.T) {
	provider := &scriptedProvider{
		responses: []string{"not json", "still not json"},
	}

	_, err := New(provider).Judge(context.Background(), nil)
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("error = %v, want ErrMalformedOutput", err)
	}
	if provider.calls != 2 {
		t.Errorf("calls = %d, want exactly 2 (one retry)", provider.calls)
	}
}

func TestFinalizeRejectsEmptyDocument(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"", ""}}

	_, err := New(provider).Finalize(context.Background(), "finalize", []string{"note"})
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("error = %v, want ErrMalformedOutput", err)
	}
}
