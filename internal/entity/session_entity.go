package entity

import (
	"time"

	"github.com/google/uuid"
)

// DiscussionSession is the moderator-authored plan one or more participants
// answer against: an ordered question list, advancement limits, and the raw
// knowledge base the retrieval index is built from.
type DiscussionSession struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Topic            string
	Questions        []string
	FollowupLimit    int
	NoNewInfoLimit   int
	FacilitatorBrief string // optional moderator override of the facilitator persona
	KnowledgeBase    string
	ChunkCount       int
	LastIndexedAt    *time.Time
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	DeletedAt        *time.Time
	IsDeleted        bool
}
