package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DiscussionSession struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Topic            string         `gorm:"type:varchar(255);not null"`
	Questions        datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	FollowupLimit    int            `gorm:"default:3"`
	NoNewInfoLimit   int            `gorm:"default:2"`
	FacilitatorBrief string         `gorm:"type:text"`
	KnowledgeBase    string         `gorm:"type:text"`
	ChunkCount       int            `gorm:"default:0"`
	LastIndexedAt    *time.Time
	IsActive         bool           `gorm:"default:true"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (DiscussionSession) TableName() string {
	return "discussion_sessions"
}
