// Package policy decides, after each participant turn, whether the dialogue
// advances to the next planned question and whether it concludes. It is a
// pure function over counters; persistence and LLM calls live elsewhere.
package policy

// Progress is the per-participant counter snapshot the policy operates on.
type Progress struct {
	QuestionIndex int // position in the plan, monotone non-decreasing
	FollowupsUsed int // turns spent on the current question
	NoNewInfoRuns int // consecutive turns judged to add nothing new
	MessageCount  int // participant messages so far, hard-capped
}

// Limits carries the session-configured thresholds plus the plan length the
// turn was resolved against.
type Limits struct {
	FollowupLimit  int
	NoNewInfoLimit int
	MaxMessages    int
	PlanLength     int
}

// Outcome is the result of evaluating one participant turn.
type Outcome struct {
	Progress  Progress
	Advanced  bool
	Concluded bool
	Reason    string
}

// Conclusion reasons.
const (
	ReasonStopRequested = "stop_requested"
	ReasonPlanComplete  = "plan_complete"
	ReasonMessageCap    = "message_cap"
)

// Evaluate applies one participant turn to the progress snapshot.
//
// The turn always counts against the message cap and against the current
// question's followup allowance. A turn bringing no new information extends
// the stagnation run; a novel one resets it. When either the followup or the
// stagnation threshold is reached the dialogue advances a single question
// (never two, even if both thresholds fire on the same turn) and both
// counters reset. Conclusion is then checked: an explicit stop, running past
// the final question, or hitting the message cap all end the conversation.
func Evaluate(p Progress, limits Limits, newInformation bool, stopRequested bool) Outcome {
	p.MessageCount++

	if newInformation {
		p.NoNewInfoRuns = 0
	} else {
		p.NoNewInfoRuns++
	}
	p.FollowupsUsed++

	advanced := false
	if p.FollowupsUsed >= limits.FollowupLimit || p.NoNewInfoRuns >= limits.NoNewInfoLimit {
		p.QuestionIndex++
		p.FollowupsUsed = 0
		p.NoNewInfoRuns = 0
		advanced = true
	}

	out := Outcome{Progress: p, Advanced: advanced}
	switch {
	case stopRequested:
		out.Concluded = true
		out.Reason = ReasonStopRequested
	case p.QuestionIndex >= limits.PlanLength:
		out.Concluded = true
		out.Reason = ReasonPlanComplete
	case p.MessageCount >= limits.MaxMessages:
		out.Concluded = true
		out.Reason = ReasonMessageCap
	}
	return out
}
