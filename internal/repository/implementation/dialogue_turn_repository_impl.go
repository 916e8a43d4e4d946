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
)

type DialogueTurnRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DialogueTurnMapper
}

func NewDialogueTurnRepository(db *gorm.DB) contract.DialogueTurnRepository {
	return &DialogueTurnRepositoryImpl{
		db:     db,
		mapper: mapper.NewDialogueTurnMapper(),
	}
}

func (r *DialogueTurnRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DialogueTurnRepositoryImpl) Create(ctx context.Context, turn *entity.DialogueTurn) error {
	m := r.mapper.ToModel(turn)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*turn = *r.mapper.ToEntity(m)
	return nil
}

func (r *DialogueTurnRepositoryImpl) CreateBulk(ctx context.Context, turns []*entity.DialogueTurn) error {
	if len(turns) == 0 {
		return nil
	}
	models := r.mapper.ToModels(turns)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*turns[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *DialogueTurnRepositoryImpl) DeleteByParticipantId(ctx context.Context, participantId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("participant_id = ?", participantId).Delete(&model.DialogueTurn{}).Error
}

func (r *DialogueTurnRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DialogueTurn, error) {
	var m model.DialogueTurn
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DialogueTurnRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DialogueTurn, error) {
	var models []*model.DialogueTurn
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DialogueTurnRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.DialogueTurn{}).Count(&count).Error
	return count, err
}

func (r *DialogueTurnRepositoryImpl) FindRecent(ctx context.Context, participantId uuid.UUID, limit int) ([]*entity.DialogueTurn, error) {
	var models []*model.DialogueTurn
	err := r.db.WithContext(ctx).
		Where("participant_id = ?", participantId).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order for prompt assembly.
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return r.mapper.ToEntities(models), nil
}
