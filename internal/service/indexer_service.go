package service

import (
	"context"
	"encoding/json"
	"time"

	"discusschat-be/internal/dto"
	"discusschat-be/internal/pkg/logger"
	"discusschat-be/internal/repository/specification"
	"discusschat-be/internal/repository/unitofwork"
	"discusschat-be/pkg/events"
	pktNats "discusschat-be/pkg/nats"
	"discusschat-be/pkg/retrieval"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IIndexerService consumes rebuild requests and re-indexes session corpora
// off the request path.
type IIndexerService interface {
	Consume(ctx context.Context) error
}

type indexerService struct {
	pubSub           *gochannel.GoChannel
	topicName        string
	uowFactory       unitofwork.RepositoryFactory
	retrievalService retrieval.IRetrievalService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewIndexerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	retrievalService retrieval.IRetrievalService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IIndexerService {
	return &indexerService{
		pubSub:           pubSub,
		topicName:        topicName,
		uowFactory:       uowFactory,
		retrievalService: retrievalService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (s *indexerService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *indexerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.RebuildIndexMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error("indexer", "failed to unmarshal rebuild message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid payloads never become valid; do not retry
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: payload.SessionId})
	if err != nil {
		s.logger.Error("indexer", "failed to load session", map[string]interface{}{
			"session_id": payload.SessionId.String(),
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}
	if session == nil {
		s.logger.Warn("indexer", "session gone, dropping rebuild request", map[string]interface{}{
			"session_id": payload.SessionId.String(),
		})
		msg.Ack()
		return
	}

	count, err := s.retrievalService.Build(ctx, session.Id, session.KnowledgeBase)
	if err != nil {
		s.logger.Error("indexer", "index rebuild failed", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	now := time.Now()
	session.ChunkCount = count
	session.LastIndexedAt = &now
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		s.logger.Error("indexer", "failed to record index stats", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeIndexRebuilt,
			Data: map[string]interface{}{
				"session_id":  session.Id.String(),
				"chunk_count": count,
			},
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("indexer", "failed to publish index event", map[string]interface{}{
				"session_id": session.Id.String(),
				"error":      err.Error(),
			})
		}
	}

	s.logger.Info("indexer", "session index rebuilt", map[string]interface{}{
		"session_id":  session.Id.String(),
		"chunk_count": count,
	})
	msg.Ack()
}
