package service

import (
	"context"
	"time"

	"discusschat-be/internal/constant"
	"discusschat-be/internal/dto"
	"discusschat-be/internal/entity"
	"discusschat-be/internal/pkg/logger"
	"discusschat-be/internal/repository/specification"
	"discusschat-be/internal/repository/unitofwork"
	"discusschat-be/pkg/dialogue"
	"discusschat-be/pkg/events"
	"discusschat-be/pkg/facilitator"
	pktNats "discusschat-be/pkg/nats"

	"github.com/google/uuid"
)

type ISynthesisService interface {
	// GenerateReport aggregates all finalized documents into the session report.
	GenerateReport(ctx context.Context, sessionId uuid.UUID) (*dto.SynthesisReportResponse, error)

	// GetReport returns the last generated report, if any.
	GetReport(ctx context.Context, sessionId uuid.UUID) (*dto.SynthesisReportResponse, error)
}

type synthesisService struct {
	uowFactory     unitofwork.RepositoryFactory
	facilitator    facilitator.Facilitator
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewSynthesisService(
	uowFactory unitofwork.RepositoryFactory,
	fac facilitator.Facilitator,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ISynthesisService {
	return &synthesisService{
		uowFactory:     uowFactory,
		facilitator:    fac,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (c *synthesisService) GenerateReport(ctx context.Context, sessionId uuid.UUID) (*dto.SynthesisReportResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, dialogue.ErrSessionNotFound
	}

	// Only concluded participants contribute; active conversations are
	// never waited on.
	participants, err := uow.ParticipantRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.ConcludedOnly{},
		specification.ByFinalStatus{Status: constant.FinalStatusDone},
	)
	if err != nil {
		return nil, err
	}

	documents := make([]string, 0, len(participants))
	for _, p := range participants {
		if p.FinalDocument != "" {
			documents = append(documents, p.FinalDocument)
		}
	}
	if len(documents) == 0 {
		return nil, dialogue.ErrInsufficientData
	}

	result, err := c.facilitator.Synthesize(ctx, constant.SynthesisPrompt, documents)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	report := entity.SynthesisReport{
		Id:                 uuid.New(),
		SessionId:          sessionId,
		ParticipantCount:   len(documents),
		Consensus:          result.Consensus,
		Disagreement:       result.Disagreement,
		SentimentStrength:  result.SentimentStrength,
		Confusion:          result.Confusion,
		MissingInformation: result.MissingInformation,
		GeneratedAt:        now,
		CreatedAt:          now,
	}
	if err := uow.SynthesisReportRepository().Upsert(ctx, &report); err != nil {
		return nil, err
	}

	if c.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeReportGenerated,
			Data: map[string]interface{}{
				"session_id":        sessionId.String(),
				"participant_count": len(documents),
			},
		}
		if err := c.eventPublisher.Publish(ctx, evt); err != nil {
			c.logger.Warn("synthesis", "failed to publish report event", map[string]interface{}{
				"session_id": sessionId.String(),
				"error":      err.Error(),
			})
		}
	}

	c.logger.Info("synthesis", "report generated", map[string]interface{}{
		"session_id":        sessionId.String(),
		"participant_count": len(documents),
	})
	return reportToDTO(&report), nil
}

func (c *synthesisService) GetReport(ctx context.Context, sessionId uuid.UUID) (*dto.SynthesisReportResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	report, err := uow.SynthesisReportRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, dialogue.ErrInsufficientData
	}
	return reportToDTO(report), nil
}

func reportToDTO(report *entity.SynthesisReport) *dto.SynthesisReportResponse {
	return &dto.SynthesisReportResponse{
		SessionId:          report.SessionId,
		ParticipantCount:   report.ParticipantCount,
		Consensus:          report.Consensus,
		Disagreement:       report.Disagreement,
		SentimentStrength:  report.SentimentStrength,
		Confusion:          report.Confusion,
		MissingInformation: report.MissingInformation,
		GeneratedAt:        report.GeneratedAt,
	}
}
