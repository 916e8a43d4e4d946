package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SynthesisReport struct {
	Id                 uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId          uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	ParticipantCount   int            `gorm:"default:0"`
	Consensus          datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	Disagreement       datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	SentimentStrength  datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	Confusion          datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	MissingInformation datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	GeneratedAt        time.Time
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

func (SynthesisReport) TableName() string {
	return "synthesis_reports"
}
