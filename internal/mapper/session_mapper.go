package mapper

import (
	"time"

	"discusschat-be/internal/entity"
	"discusschat-be/internal/model"

	"gorm.io/gorm"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.DiscussionSession) *entity.DiscussionSession {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.DiscussionSession{
		Id:               s.Id,
		Topic:            s.Topic,
		Questions:        jsonToStrings(s.Questions),
		FollowupLimit:    s.FollowupLimit,
		NoNewInfoLimit:   s.NoNewInfoLimit,
		FacilitatorBrief: s.FacilitatorBrief,
		KnowledgeBase:    s.KnowledgeBase,
		ChunkCount:       s.ChunkCount,
		LastIndexedAt:    s.LastIndexedAt,
		IsActive:         s.IsActive,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
		IsDeleted:        s.DeletedAt.Valid,
	}
}

func (m *SessionMapper) ToModel(s *entity.DiscussionSession) *model.DiscussionSession {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.DiscussionSession{
		Id:               s.Id,
		Topic:            s.Topic,
		Questions:        stringsToJSON(s.Questions),
		FollowupLimit:    s.FollowupLimit,
		NoNewInfoLimit:   s.NoNewInfoLimit,
		FacilitatorBrief: s.FacilitatorBrief,
		KnowledgeBase:    s.KnowledgeBase,
		ChunkCount:       s.ChunkCount,
		LastIndexedAt:    s.LastIndexedAt,
		IsActive:         s.IsActive,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
	}
}

func (m *SessionMapper) ToEntities(sessions []*model.DiscussionSession) []*entity.DiscussionSession {
	entities := make([]*entity.DiscussionSession, len(sessions))
	for i, s := range sessions {
		entities[i] = m.ToEntity(s)
	}
	return entities
}

func (m *SessionMapper) ToModels(sessions []*entity.DiscussionSession) []*model.DiscussionSession {
	models := make([]*model.DiscussionSession, len(sessions))
	for i, s := range sessions {
		models[i] = m.ToModel(s)
	}
	return models
}
