package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Topic            string   `json:"topic" validate:"required"`
	Questions        []string `json:"questions" validate:"required,min=1,dive,required"`
	FollowupLimit    int      `json:"followup_limit" validate:"omitempty,min=1"`
	NoNewInfoLimit   int      `json:"no_new_info_limit" validate:"omitempty,min=1"`
	FacilitatorBrief string   `json:"facilitator_brief"`
	KnowledgeBase    string   `json:"knowledge_base"`
}

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateSessionRequest struct {
	Id               uuid.UUID
	Topic            string   `json:"topic" validate:"required"`
	Questions        []string `json:"questions" validate:"required,min=1,dive,required"`
	FollowupLimit    int      `json:"followup_limit" validate:"omitempty,min=1"`
	NoNewInfoLimit   int      `json:"no_new_info_limit" validate:"omitempty,min=1"`
	FacilitatorBrief string   `json:"facilitator_brief"`
}

type UpdateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

// UpdateKnowledgeRequest replaces the session corpus; the index rebuild runs
// asynchronously unless the sync rebuild endpoint is used.
type UpdateKnowledgeRequest struct {
	Id            uuid.UUID
	KnowledgeBase string `json:"knowledge_base"`
}

type UpdateKnowledgeResponse struct {
	Id uuid.UUID `json:"id"`
}

type RebuildIndexResponse struct {
	Id         uuid.UUID `json:"id"`
	ChunkCount int       `json:"chunk_count"`
}

type ShowSessionResponse struct {
	Id               uuid.UUID  `json:"id"`
	Topic            string     `json:"topic"`
	Questions        []string   `json:"questions"`
	FollowupLimit    int        `json:"followup_limit"`
	NoNewInfoLimit   int        `json:"no_new_info_limit"`
	FacilitatorBrief string     `json:"facilitator_brief,omitempty"`
	ChunkCount       int        `json:"chunk_count"`
	LastIndexedAt    *time.Time `json:"last_indexed_at,omitempty"`
	IsActive         bool       `json:"is_active"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Topic     string     `json:"topic"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
