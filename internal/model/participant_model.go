package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Participant struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId     uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_participants_session_key"`
	Key           string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_participants_session_key"`
	DisplayName   string         `gorm:"type:varchar(255)"`
	QuestionIndex int            `gorm:"default:0"`
	FollowupCount int            `gorm:"default:0"`
	NoNewInfoRuns int            `gorm:"default:0"`
	MessageCount  int            `gorm:"default:0"`
	PlanSnapshot  datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	Notes         datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	Concluded     bool           `gorm:"default:false"`
	ConcludedAt   *time.Time
	FinalStatus   string         `gorm:"type:varchar(50)"`
	FinalDocument string         `gorm:"type:text"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (Participant) TableName() string {
	return "participants"
}
