package mapper

import (
	"discusschat-be/internal/entity"
	"discusschat-be/internal/model"
)

type DialogueTurnMapper struct{}

func NewDialogueTurnMapper() *DialogueTurnMapper {
	return &DialogueTurnMapper{}
}

func (m *DialogueTurnMapper) ToEntity(t *model.DialogueTurn) *entity.DialogueTurn {
	if t == nil {
		return nil
	}

	return &entity.DialogueTurn{
		Id:            t.Id,
		SessionId:     t.SessionId,
		ParticipantId: t.ParticipantId,
		Role:          t.Role,
		Content:       t.Content,
		QuestionIndex: t.QuestionIndex,
		Breakdown:     t.Breakdown,
		Clarification: jsonToStrings(t.Clarification),
		NewInfo:       t.NewInfo,
		Justification: t.Justification,
		CreatedAt:     t.CreatedAt,
	}
}

func (m *DialogueTurnMapper) ToModel(t *entity.DialogueTurn) *model.DialogueTurn {
	if t == nil {
		return nil
	}

	return &model.DialogueTurn{
		Id:            t.Id,
		SessionId:     t.SessionId,
		ParticipantId: t.ParticipantId,
		Role:          t.Role,
		Content:       t.Content,
		QuestionIndex: t.QuestionIndex,
		Breakdown:     t.Breakdown,
		Clarification: stringsToJSON(t.Clarification),
		NewInfo:       t.NewInfo,
		Justification: t.Justification,
		CreatedAt:     t.CreatedAt,
	}
}

func (m *DialogueTurnMapper) ToEntities(turns []*model.DialogueTurn) []*entity.DialogueTurn {
	entities := make([]*entity.DialogueTurn, len(turns))
	for i, t := range turns {
		entities[i] = m.ToEntity(t)
	}
	return entities
}

func (m *DialogueTurnMapper) ToModels(turns []*entity.DialogueTurn) []*model.DialogueTurn {
	models := make([]*model.DialogueTurn, len(turns))
	for i, t := range turns {
		models[i] = m.ToModel(t)
	}
	return models
}
