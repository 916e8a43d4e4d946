package implementation

import (
	"context"
	"errors"

	"discusschat-be/internal/entity"
	"discusschat-be/internal/mapper"
	"discusschat-be/internal/model"
	"discusschat-be/internal/repository/contract"
	"discusschat-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SynthesisReportRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SynthesisReportMapper
}

func NewSynthesisReportRepository(db *gorm.DB) contract.SynthesisReportRepository {
	return &SynthesisReportRepositoryImpl{
		db:     db,
		mapper: mapper.NewSynthesisReportMapper(),
	}
}

func (r *SynthesisReportRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Upsert replaces a session's existing report; regeneration is always allowed.
func (r *SynthesisReportRepositoryImpl) Upsert(ctx context.Context, report *entity.SynthesisReport) error {
	m := r.mapper.ToModel(report)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"participant_count",
			"consensus",
			"disagreement",
			"sentiment_strength",
			"confusion",
			"missing_information",
			"generated_at",
			"updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*report = *r.mapper.ToEntity(m)
	return nil
}

func (r *SynthesisReportRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.SynthesisReport{}, id).Error
}

func (r *SynthesisReportRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SynthesisReport, error) {
	var m model.SynthesisReport
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SynthesisReportRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SynthesisReport, error) {
	var models []*model.SynthesisReport
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.SynthesisReport, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
