package entity

import (
	"time"

	"github.com/google/uuid"
)

// DialogueTurn is a single utterance in a participant's conversation. Turns
// from the person carry role "participant"; generated replies carry role
// "facilitator" together with the structured judgment that produced them.
type DialogueTurn struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId     uuid.UUID `gorm:"type:uuid;index"`
	ParticipantId uuid.UUID `gorm:"type:uuid;index"`
	Role          string
	Content       string
	QuestionIndex int
	Breakdown     string
	Clarification []string
	NewInfo       bool
	Justification string
	CreatedAt     time.Time
}
