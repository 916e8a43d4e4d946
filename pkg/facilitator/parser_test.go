package facilitator

import (
	"errors"
	"testing"
)

func TestParseJudgment(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		check   func(t *testing.T, j *Judgment)
	}{
		{
			name: "complete judgment",
			raw: `{
				"reply": "Could you expand on that?",
				"breakdown": ["supports the plan", "worried about cost"],
				"clarification_requests": ["What cost figure worries you?"],
				"new_information": true,
				"notes_entry": "Supports plan; cost concern raised.",
				"justification": "Cost concern not previously mentioned."
			}`,
			check: func(t *testing.T, j *Judgment) {
				if j.Reply != "Could you expand on that?" {
					t.Errorf("Reply = %q", j.Reply)
				}
				if !j.NewInformation {
					t.Error("NewInformation should be true")
				}
				if len(j.Breakdown) != 2 || len(j.Clarifications) != 1 {
					t.Errorf("Breakdown=%d Clarifications=%d", len(j.Breakdown), len(j.Clarifications))
				}
			},
		},
		{
			name: "json wrapped in prose and code fences",
			raw: "Here is my answer:\n```json\n{\"reply\": \"ok\", \"new_information\": false, \"notes_entry\": \"nothing new\"}\n```",
			check: func(t *testing.T, j *Judgment) {
				if j.Reply != "ok" || j.NewInformation {
					t.Errorf("got %+v", j)
				}
				if j.Breakdown == nil || j.Clarifications == nil {
					t.Error("optional arrays should default to empty, not nil")
				}
			},
		},
		{
			name:    "missing new_information is rejected, not defaulted",
			raw:     `{"reply": "ok", "notes_entry": "n"}`,
			wantErr: true,
		},
		{
			name:    "missing reply",
			raw:     `{"new_information": true, "notes_entry": "n"}`,
			wantErr: true,
		},
		{
			name:    "unknown field rejected",
			raw:     `{"reply": "ok", "new_information": true, "notes_entry": "n", "mood": "happy"}`,
			wantErr: true,
		},
		{
			name:    "not json at all",
			raw:     "I refuse to answer in JSON.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, err := parseJudgment(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.Is(err, ErrMalformedOutput) {
					t.Errorf("error = %v, want ErrMalformedOutput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, j)
		})
	}
}

func TestParseReport(t *testing.T) {
	raw := `{
		"consensus": ["all support the plan"],
		"disagreement": [],
		"sentiment_strength": ["strong support from two participants"],
		"confusion": ["unclear on timeline"],
		"missing_information": ["no cost estimate discussed"]
	}`

	report, err := parseReport(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Consensus) != 1 || len(report.Disagreement) != 0 {
		t.Errorf("Consensus=%d Disagreement=%d", len(report.Consensus), len(report.Disagreement))
	}
	if len(report.MissingInformation) != 1 {
		t.Errorf("MissingInformation = %v", report.MissingInformation)
	}
}

func TestParseReportMissingArrayRejected(t *testing.T) {
	raw := `{
		"consensus": ["a"],
		"disagreement": ["b"],
		"sentiment_strength": ["c"],
		"confusion": ["d"]
	}`

	_, err := parseReport(raw)
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("error = %v, want ErrMalformedOutput", err)
	}
}

func TestExtractJSON(t *testing.T) {
	got := extractJSON("noise {\"a\": {\"b\": 1}} trailing")
	if got != `{"a": {"b": 1}}` {
		t.Errorf("extractJSON = %q", got)
	}

	// No braces: returned unchanged so the decoder reports the real failure.
	if got := extractJSON("plain text"); got != "plain text" {
		t.Errorf("extractJSON = %q", got)
	}
}
