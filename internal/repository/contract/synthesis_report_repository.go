package contract

import (
	"context"

	"discusschat-be/internal/entity"
	"discusschat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SynthesisReportRepository interface {
	// Upsert inserts the report or replaces the existing one for the same session.
	Upsert(ctx context.Context, report *entity.SynthesisReport) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SynthesisReport, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SynthesisReport, error)
}
