package policy

import (
	"testing"
)

func TestEvaluate(t *testing.T) {
	limits := Limits{
		FollowupLimit:  3,
		NoNewInfoLimit: 2,
		MaxMessages:    15,
		PlanLength:     3,
	}

	tests := []struct {
		name           string
		progress       Progress
		newInformation bool
		stopRequested  bool
		wantIndex      int
		wantFollowups  int
		wantNoNewRuns  int
		wantAdvanced   bool
		wantConcluded  bool
		wantReason     string
	}{
		{
			name:           "novel answer stays on question",
			progress:       Progress{QuestionIndex: 0, FollowupsUsed: 0},
			newInformation: true,
			wantIndex:      0,
			wantFollowups:  1,
			wantNoNewRuns:  0,
		},
		{
			name:           "followup limit forces advance despite novelty",
			progress:       Progress{QuestionIndex: 0, FollowupsUsed: 2},
			newInformation: true,
			wantIndex:      1,
			wantAdvanced:   true,
		},
		{
			name:           "no new info increments stagnation run",
			progress:       Progress{QuestionIndex: 1, FollowupsUsed: 0, NoNewInfoRuns: 0},
			newInformation: false,
			wantIndex:      1,
			wantFollowups:  1,
			wantNoNewRuns:  1,
		},
		{
			name:           "stagnation limit forces advance below followup limit",
			progress:       Progress{QuestionIndex: 1, FollowupsUsed: 0, NoNewInfoRuns: 1},
			newInformation: false,
			wantIndex:      2,
			wantAdvanced:   true,
		},
		{
			name:           "novelty resets a stagnation run",
			progress:       Progress{QuestionIndex: 1, FollowupsUsed: 1, NoNewInfoRuns: 1},
			newInformation: true,
			wantIndex:      1,
			wantFollowups:  2,
			wantNoNewRuns:  0,
		},
		{
			name:           "both limits firing advances a single question",
			progress:       Progress{QuestionIndex: 0, FollowupsUsed: 2, NoNewInfoRuns: 1},
			newInformation: false,
			wantIndex:      1,
			wantAdvanced:   true,
		},
		{
			name:           "advancing past final question concludes",
			progress:       Progress{QuestionIndex: 2, FollowupsUsed: 2},
			newInformation: true,
			wantIndex:      3,
			wantAdvanced:   true,
			wantConcluded:  true,
			wantReason:     ReasonPlanComplete,
		},
		{
			name:           "message cap concludes mid-question",
			progress:       Progress{QuestionIndex: 1, FollowupsUsed: 0, MessageCount: 14},
			newInformation: true,
			wantIndex:      1,
			wantFollowups:  1,
			wantConcluded:  true,
			wantReason:     ReasonMessageCap,
		},
		{
			name:           "explicit stop concludes regardless of progress",
			progress:       Progress{QuestionIndex: 0, FollowupsUsed: 0},
			newInformation: true,
			stopRequested:  true,
			wantIndex:      0,
			wantFollowups:  1,
			wantConcluded:  true,
			wantReason:     ReasonStopRequested,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Evaluate(tt.progress, limits, tt.newInformation, tt.stopRequested)

			if out.Progress.QuestionIndex != tt.wantIndex {
				t.Errorf("QuestionIndex = %d, want %d", out.Progress.QuestionIndex, tt.wantIndex)
			}
			if out.Progress.FollowupsUsed != tt.wantFollowups {
				t.Errorf("FollowupsUsed = %d, want %d", out.Progress.FollowupsUsed, tt.wantFollowups)
			}
			if out.Progress.NoNewInfoRuns != tt.wantNoNewRuns {
				t.Errorf("NoNewInfoRuns = %d, want %d", out.Progress.NoNewInfoRuns, tt.wantNoNewRuns)
			}
			if out.Advanced != tt.wantAdvanced {
				t.Errorf("Advanced = %v, want %v", out.Advanced, tt.wantAdvanced)
			}
			if out.Concluded != tt.wantConcluded {
				t.Errorf("Concluded = %v, want %v", out.Concluded, tt.wantConcluded)
			}
			if out.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", out.Reason, tt.wantReason)
			}
		})
	}
}

func TestEvaluateMessageCountMonotone(t *testing.T) {
	limits := Limits{FollowupLimit: 3, NoNewInfoLimit: 2, MaxMessages: 15, PlanLength: 10}
	p := Progress{}
	for i := 1; i <= 5; i++ {
		out := Evaluate(p, limits, true, false)
		if out.Progress.MessageCount != i {
			t.Fatalf("MessageCount after turn %d = %d", i, out.Progress.MessageCount)
		}
		if out.Progress.QuestionIndex < p.QuestionIndex {
			t.Fatalf("QuestionIndex regressed: %d -> %d", p.QuestionIndex, out.Progress.QuestionIndex)
		}
		p = out.Progress
	}
}

// Two questions with a single followup allowed each: the dialogue should
// conclude after exactly two participant turns.
func TestEvaluateTightPlanConcludesInTwoTurns(t *testing.T) {
	limits := Limits{FollowupLimit: 1, NoNewInfoLimit: 2, MaxMessages: 15, PlanLength: 2}

	first := Evaluate(Progress{}, limits, true, false)
	if !first.Advanced || first.Concluded {
		t.Fatalf("turn 1: Advanced=%v Concluded=%v, want advance without conclusion", first.Advanced, first.Concluded)
	}
	if first.Progress.QuestionIndex != 1 {
		t.Fatalf("turn 1: QuestionIndex = %d, want 1", first.Progress.QuestionIndex)
	}

	second := Evaluate(first.Progress, limits, true, false)
	if !second.Concluded || second.Reason != ReasonPlanComplete {
		t.Fatalf("turn 2: Concluded=%v Reason=%q, want plan_complete conclusion", second.Concluded, second.Reason)
	}
}
