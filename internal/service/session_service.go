package service

import (
	"context"
	"encoding/json"
	"time"

	"discusschat-be/internal/dto"
	"discusschat-be/internal/entity"
	"discusschat-be/internal/pkg/logger"
	"discusschat-be/internal/repository/specification"
	"discusschat-be/internal/repository/unitofwork"
	"discusschat-be/pkg/dialogue"
	"discusschat-be/pkg/retrieval"

	"github.com/google/uuid"
)

type ISessionService interface {
	Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	Update(ctx context.Context, req *dto.UpdateSessionRequest) (*dto.UpdateSessionResponse, error)
	UpdateKnowledge(ctx context.Context, req *dto.UpdateKnowledgeRequest) (*dto.UpdateKnowledgeResponse, error)
	RebuildIndex(ctx context.Context, id uuid.UUID) (*dto.RebuildIndexResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowSessionResponse, error)
	GetAll(ctx context.Context) ([]*dto.GetAllSessionsResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type sessionService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	retrievalService retrieval.IRetrievalService
	logger           logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	retrievalService retrieval.IRetrievalService,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		retrievalService: retrievalService,
		logger:           log,
	}
}

func (c *sessionService) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session := entity.DiscussionSession{
		Id:               uuid.New(),
		Topic:            req.Topic,
		Questions:        req.Questions,
		FollowupLimit:    req.FollowupLimit,
		NoNewInfoLimit:   req.NoNewInfoLimit,
		FacilitatorBrief: req.FacilitatorBrief,
		KnowledgeBase:    req.KnowledgeBase,
		IsActive:         true,
		CreatedAt:        time.Now(),
	}

	if err := uow.SessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	if session.KnowledgeBase != "" {
		if err := c.publishRebuild(ctx, session.Id); err != nil {
			return nil, err
		}
	}

	c.logger.Info("session", "discussion session created", map[string]interface{}{
		"session_id": session.Id.String(),
		"questions":  len(session.Questions),
	})
	return &dto.CreateSessionResponse{Id: session.Id}, nil
}

// Update edits the plan and limits. Running conversations pick the edit up
// at their next turn; a turn already in flight finishes against the plan it
// loaded at turn start.
func (c *sessionService) Update(ctx context.Context, req *dto.UpdateSessionRequest) (*dto.UpdateSessionResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, dialogue.ErrSessionNotFound
	}

	session.Topic = req.Topic
	session.Questions = req.Questions
	session.FollowupLimit = req.FollowupLimit
	session.NoNewInfoLimit = req.NoNewInfoLimit
	session.FacilitatorBrief = req.FacilitatorBrief

	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}
	return &dto.UpdateSessionResponse{Id: session.Id}, nil
}

func (c *sessionService) UpdateKnowledge(ctx context.Context, req *dto.UpdateKnowledgeRequest) (*dto.UpdateKnowledgeResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, dialogue.ErrSessionNotFound
	}

	session.KnowledgeBase = req.KnowledgeBase
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	if err := c.publishRebuild(ctx, session.Id); err != nil {
		return nil, err
	}
	return &dto.UpdateKnowledgeResponse{Id: session.Id}, nil
}

// RebuildIndex is the synchronous variant used by moderator tooling that
// wants the chunk count back immediately.
func (c *sessionService) RebuildIndex(ctx context.Context, id uuid.UUID) (*dto.RebuildIndexResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, dialogue.ErrSessionNotFound
	}

	count, err := c.retrievalService.Build(ctx, session.Id, session.KnowledgeBase)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session.ChunkCount = count
	session.LastIndexedAt = &now
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	return &dto.RebuildIndexResponse{Id: session.Id, ChunkCount: count}, nil
}

func (c *sessionService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowSessionResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, dialogue.ErrSessionNotFound
	}

	return &dto.ShowSessionResponse{
		Id:               session.Id,
		Topic:            session.Topic,
		Questions:        session.Questions,
		FollowupLimit:    session.FollowupLimit,
		NoNewInfoLimit:   session.NoNewInfoLimit,
		FacilitatorBrief: session.FacilitatorBrief,
		ChunkCount:       session.ChunkCount,
		LastIndexedAt:    session.LastIndexedAt,
		IsActive:         session.IsActive,
		CreatedAt:        session.CreatedAt,
		UpdatedAt:        session.UpdatedAt,
	}, nil
}

func (c *sessionService) GetAll(ctx context.Context) ([]*dto.GetAllSessionsResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.SessionRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.GetAllSessionsResponse, 0, len(sessions))
	for _, s := range sessions {
		resp = append(resp, &dto.GetAllSessionsResponse{
			Id:        s.Id,
			Topic:     s.Topic,
			IsActive:  s.IsActive,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}
	return resp, nil
}

func (c *sessionService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if session == nil {
		return dialogue.ErrSessionNotFound
	}
	return uow.SessionRepository().Delete(ctx, id)
}

func (c *sessionService) publishRebuild(ctx context.Context, sessionId uuid.UUID) error {
	payload, err := json.Marshal(dto.RebuildIndexMessage{SessionId: sessionId})
	if err != nil {
		return err
	}
	return c.publisherService.Publish(ctx, payload)
}
