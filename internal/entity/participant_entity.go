package entity

import (
	"time"

	"github.com/google/uuid"
)

// Participant is one person's lane through a session: private dialogue state,
// the running notes accumulated by the facilitator, and the finalized views
// document once the conversation concludes.
type Participant struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId     uuid.UUID `gorm:"type:uuid;index"`
	Key           string    // caller-supplied stable identifier, unique per session
	DisplayName   string
	QuestionIndex int
	FollowupCount int
	NoNewInfoRuns int
	MessageCount  int
	PlanSnapshot  []string // questions copied at first message; plan edits never shift an in-flight lane
	Notes         []string
	Concluded     bool
	ConcludedAt   *time.Time
	FinalStatus   string
	FinalDocument string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}
