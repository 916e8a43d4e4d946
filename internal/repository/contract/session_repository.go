package contract

import (
	"context"

	"discusschat-be/internal/entity"
	"discusschat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.DiscussionSession) error
	Update(ctx context.Context, session *entity.DiscussionSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DiscussionSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DiscussionSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
