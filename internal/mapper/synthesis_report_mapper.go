package mapper

import (
	"time"

	"discusschat-be/internal/entity"
	"discusschat-be/internal/model"
)

type SynthesisReportMapper struct{}

func NewSynthesisReportMapper() *SynthesisReportMapper {
	return &SynthesisReportMapper{}
}

func (m *SynthesisReportMapper) ToEntity(r *model.SynthesisReport) *entity.SynthesisReport {
	if r == nil {
		return nil
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.SynthesisReport{
		Id:                 r.Id,
		SessionId:          r.SessionId,
		ParticipantCount:   r.ParticipantCount,
		Consensus:          jsonToStrings(r.Consensus),
		Disagreement:       jsonToStrings(r.Disagreement),
		SentimentStrength:  jsonToStrings(r.SentimentStrength),
		Confusion:          jsonToStrings(r.Confusion),
		MissingInformation: jsonToStrings(r.MissingInformation),
		GeneratedAt:        r.GeneratedAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          updatedAt,
	}
}

func (m *SynthesisReportMapper) ToModel(r *entity.SynthesisReport) *model.SynthesisReport {
	if r == nil {
		return nil
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	return &model.SynthesisReport{
		Id:                 r.Id,
		SessionId:          r.SessionId,
		ParticipantCount:   r.ParticipantCount,
		Consensus:          stringsToJSON(r.Consensus),
		Disagreement:       stringsToJSON(r.Disagreement),
		SentimentStrength:  stringsToJSON(r.SentimentStrength),
		Confusion:          stringsToJSON(r.Confusion),
		MissingInformation: stringsToJSON(r.MissingInformation),
		GeneratedAt:        r.GeneratedAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          updatedAt,
	}
}
