package mapper

import (
	"time"

	"discusschat-be/internal/entity"
	"discusschat-be/internal/model"

	"gorm.io/gorm"
)

type ParticipantMapper struct{}

func NewParticipantMapper() *ParticipantMapper {
	return &ParticipantMapper{}
}

func (m *ParticipantMapper) ToEntity(p *model.Participant) *entity.Participant {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.Participant{
		Id:            p.Id,
		SessionId:     p.SessionId,
		Key:           p.Key,
		DisplayName:   p.DisplayName,
		QuestionIndex: p.QuestionIndex,
		FollowupCount: p.FollowupCount,
		NoNewInfoRuns: p.NoNewInfoRuns,
		MessageCount:  p.MessageCount,
		PlanSnapshot:  jsonToStrings(p.PlanSnapshot),
		Notes:         jsonToStrings(p.Notes),
		Concluded:     p.Concluded,
		ConcludedAt:   p.ConcludedAt,
		FinalStatus:   p.FinalStatus,
		FinalDocument: p.FinalDocument,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     updatedAt,
		DeletedAt:     deletedAt,
		IsDeleted:     p.DeletedAt.Valid,
	}
}

func (m *ParticipantMapper) ToModel(p *entity.Participant) *model.Participant {
	if p == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if p.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
	} else if p.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Participant{
		Id:            p.Id,
		SessionId:     p.SessionId,
		Key:           p.Key,
		DisplayName:   p.DisplayName,
		QuestionIndex: p.QuestionIndex,
		FollowupCount: p.FollowupCount,
		NoNewInfoRuns: p.NoNewInfoRuns,
		MessageCount:  p.MessageCount,
		PlanSnapshot:  stringsToJSON(p.PlanSnapshot),
		Notes:         stringsToJSON(p.Notes),
		Concluded:     p.Concluded,
		ConcludedAt:   p.ConcludedAt,
		FinalStatus:   p.FinalStatus,
		FinalDocument: p.FinalDocument,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     updatedAt,
		DeletedAt:     deletedAt,
	}
}

func (m *ParticipantMapper) ToEntities(participants []*model.Participant) []*entity.Participant {
	entities := make([]*entity.Participant, len(participants))
	for i, p := range participants {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

func (m *ParticipantMapper) ToModels(participants []*entity.Participant) []*model.Participant {
	models := make([]*model.Participant, len(participants))
	for i, p := range participants {
		models[i] = m.ToModel(p)
	}
	return models
}
