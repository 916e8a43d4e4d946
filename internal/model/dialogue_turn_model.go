package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type DialogueTurn struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	ParticipantId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Role          string         `gorm:"type:varchar(50);not null"`
	Content       string         `gorm:"type:text;not null"`
	QuestionIndex int            `gorm:"default:0"`
	Breakdown     string         `gorm:"type:text"`
	Clarification datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	NewInfo       bool           `gorm:"default:false"`
	Justification string         `gorm:"type:text"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
}

func (DialogueTurn) TableName() string {
	return "dialogue_turns"
}
