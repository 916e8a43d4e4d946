package contract

import (
	"context"

	"discusschat-be/internal/entity"
	"discusschat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DialogueTurnRepository interface {
	Create(ctx context.Context, turn *entity.DialogueTurn) error
	CreateBulk(ctx context.Context, turns []*entity.DialogueTurn) error
	DeleteByParticipantId(ctx context.Context, participantId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DialogueTurn, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DialogueTurn, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// FindRecent returns the latest turns for a participant in chronological order.
	FindRecent(ctx context.Context, participantId uuid.UUID, limit int) ([]*entity.DialogueTurn, error)
}
