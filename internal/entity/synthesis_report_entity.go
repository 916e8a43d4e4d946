package entity

import (
	"time"

	"github.com/google/uuid"
)

// SynthesisReport is the cross-participant moderator summary generated from
// the finalized views documents of a session's concluded participants.
type SynthesisReport struct {
	Id                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId          uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	ParticipantCount   int
	Consensus          []string
	Disagreement       []string
	SentimentStrength  []string
	Confusion          []string
	MissingInformation []string
	GeneratedAt        time.Time
	CreatedAt          time.Time
	UpdatedAt          *time.Time
}
