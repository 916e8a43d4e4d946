package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"discusschat-be/internal/constant"
	"discusschat-be/internal/dto"
	"discusschat-be/internal/entity"
	"discusschat-be/internal/pkg/logger"
	"discusschat-be/internal/repository/memory"
	"discusschat-be/internal/repository/specification"
	"discusschat-be/internal/repository/unitofwork"
	"discusschat-be/pkg/dialogue"
	"discusschat-be/pkg/dialogue/assembler"
	"discusschat-be/pkg/dialogue/policy"
	"discusschat-be/pkg/events"
	"discusschat-be/pkg/facilitator"
	pktNats "discusschat-be/pkg/nats"
	"discusschat-be/pkg/retrieval"

	"github.com/google/uuid"
)

type IConversationService interface {
	SubmitMessage(ctx context.Context, req *dto.SubmitMessageRequest) (*dto.SubmitMessageResponse, error)
	RequestStop(ctx context.Context, req *dto.RequestStopRequest) (*dto.RequestStopResponse, error)
	RetryFinalization(ctx context.Context, sessionId uuid.UUID, participantKey string) (*dto.RetryFinalizationResponse, error)
	GetProgress(ctx context.Context, sessionId uuid.UUID, participantKey string) (*dto.ProgressDTO, error)
	GetHistory(ctx context.Context, sessionId uuid.UUID, participantKey string) (*dto.GetHistoryResponse, error)
	GetFinalDocument(ctx context.Context, sessionId uuid.UUID, participantKey string) (*dto.GetFinalDocumentResponse, error)
}

// IProgressBroadcaster pushes per-participant progress to listening
// moderator dashboards. Nil-safe: wiring it is optional.
type IProgressBroadcaster interface {
	BroadcastProgress(sessionId uuid.UUID, participantKey string, progress dto.ProgressDTO)
}

type conversationService struct {
	uowFactory       unitofwork.RepositoryFactory
	turnGuard        *memory.TurnGuard
	facilitator      facilitator.Facilitator
	retrievalService retrieval.IRetrievalService
	eventPublisher   *pktNats.Publisher
	broadcaster      IProgressBroadcaster
	defaultLimits    policy.Limits
	logger           logger.ILogger
}

func NewConversationService(
	uowFactory unitofwork.RepositoryFactory,
	turnGuard *memory.TurnGuard,
	fac facilitator.Facilitator,
	retrievalService retrieval.IRetrievalService,
	eventPublisher *pktNats.Publisher,
	broadcaster IProgressBroadcaster,
	followupLimit int,
	noNewInfoLimit int,
	log logger.ILogger,
) IConversationService {
	return &conversationService{
		uowFactory:       uowFactory,
		turnGuard:        turnGuard,
		facilitator:      fac,
		retrievalService: retrievalService,
		eventPublisher:   eventPublisher,
		broadcaster:      broadcaster,
		defaultLimits: policy.Limits{
			FollowupLimit:  followupLimit,
			NoNewInfoLimit: noNewInfoLimit,
			MaxMessages:    constant.MaxParticipantMessages,
		},
		logger: log,
	}
}

func (c *conversationService) SubmitMessage(ctx context.Context, req *dto.SubmitMessageRequest) (*dto.SubmitMessageResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: req.SessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, dialogue.ErrSessionNotFound
	}

	participant, err := c.findOrCreateParticipant(ctx, uow, session, req)
	if err != nil {
		return nil, err
	}
	if participant.Concluded {
		return nil, dialogue.ErrConversationConcluded
	}

	guardKey := participant.Id.String()
	if !c.turnGuard.Acquire(guardKey) {
		return nil, dialogue.ErrTurnInFlight
	}
	defer c.turnGuard.Release(guardKey)

	// The turn resolves against the plan as the moderator edited it by now;
	// the participant's index stays monotone so passed questions never
	// renumber. The refreshed snapshot persists with the turn below.
	participant.PlanSnapshot = append([]string(nil), session.Questions...)

	limits := c.limitsFor(session, participant)
	question := currentQuestion(participant.PlanSnapshot, participant.QuestionIndex)

	// Retrieval failures degrade to an un-grounded turn rather than block it.
	var chunks []assembler.Chunk
	scored, err := c.retrievalService.Query(ctx, session.Id, req.Message, constant.RetrievalTopK)
	if err != nil {
		c.logger.Warn("conversation", "retrieval unavailable for turn", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
	} else {
		for _, s := range scored {
			chunks = append(chunks, assembler.Chunk{Content: s.Chunk.Content, Score: s.Similarity})
		}
	}

	recent, err := uow.DialogueTurnRepository().FindRecent(ctx, participant.Id, assembler.HistoryWindow)
	if err != nil {
		return nil, err
	}
	history := make([]assembler.Turn, 0, len(recent))
	for _, t := range recent {
		role := "user"
		if t.Role == constant.TurnRoleFacilitator {
			role = "assistant"
		}
		history = append(history, assembler.Turn{Role: role, Content: t.Content})
	}

	messages := assembler.Assemble(assembler.AssembleInput{
		System:      facilitatorSystemPrompt(session),
		Question:    question,
		UserMessage: req.Message,
		History:     history,
		Notes:       participant.Notes,
		Chunks:      chunks,
	})

	// Model failure before this point leaves zero state changes behind,
	// but a stop queued during the failed turn still applies.
	judgment, err := c.facilitator.Judge(ctx, messages)
	if err != nil {
		if c.applyQueuedStop(ctx, session, participant, guardKey) && c.broadcaster != nil {
			c.broadcaster.BroadcastProgress(session.Id, participant.Key, c.progressDTO(participant))
		}
		return nil, err
	}

	stopQueued := c.turnGuard.StopRequested(guardKey)
	outcome := policy.Evaluate(policy.Progress{
		QuestionIndex: participant.QuestionIndex,
		FollowupsUsed: participant.FollowupCount,
		NoNewInfoRuns: participant.NoNewInfoRuns,
		MessageCount:  participant.MessageCount,
	}, limits, judgment.NewInformation, stopQueued)

	// The answered question keeps its pre-advance index on both turn rows.
	askedIndex := participant.QuestionIndex

	now := time.Now()
	participant.QuestionIndex = outcome.Progress.QuestionIndex
	participant.FollowupCount = outcome.Progress.FollowupsUsed
	participant.NoNewInfoRuns = outcome.Progress.NoNewInfoRuns
	participant.MessageCount = outcome.Progress.MessageCount
	if judgment.NotesEntry != "" {
		participant.Notes = append(participant.Notes, judgment.NotesEntry)
	}
	if outcome.Concluded {
		participant.Concluded = true
		participant.ConcludedAt = &now
		participant.FinalStatus = constant.FinalStatusPending
	}

	turns := []*entity.DialogueTurn{
		{
			Id:            uuid.New(),
			SessionId:     session.Id,
			ParticipantId: participant.Id,
			Role:          constant.TurnRoleParticipant,
			Content:       req.Message,
			QuestionIndex: askedIndex,
			NewInfo:       judgment.NewInformation,
			CreatedAt:     now,
		},
		{
			Id:            uuid.New(),
			SessionId:     session.Id,
			ParticipantId: participant.Id,
			Role:          constant.TurnRoleFacilitator,
			Content:       judgment.Reply,
			QuestionIndex: askedIndex,
			Breakdown:     strings.Join(judgment.Breakdown, "\n"),
			Clarification: judgment.Clarifications,
			Justification: judgment.Justification,
			CreatedAt:     now.Add(time.Millisecond),
		},
	}

	// Turn append, notes append, counters and index move together or not at all.
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.DialogueTurnRepository().CreateBulk(ctx, turns); err != nil {
		return nil, err
	}
	if err := uow.ParticipantRepository().Update(ctx, participant); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// A consumed stop is cleared; so is one made moot by the conclusion.
	if stopQueued || outcome.Concluded {
		c.turnGuard.ClearStop(guardKey)
	}

	concluded, reason := outcome.Concluded, outcome.Reason
	if concluded {
		c.concludeParticipant(ctx, session, participant, reason)
	} else if c.applyQueuedStop(ctx, session, participant, guardKey) {
		// A stop landed between the policy evaluation and the commit.
		concluded, reason = true, policy.ReasonStopRequested
	}

	progress := c.progressDTO(participant)
	if c.broadcaster != nil {
		c.broadcaster.BroadcastProgress(session.Id, participant.Key, progress)
	}

	return &dto.SubmitMessageResponse{
		Reply:          judgment.Reply,
		Clarifications: judgment.Clarifications,
		Progress:       progress,
		Concluded:      concluded,
		ConcludeReason: reason,
	}, nil
}

func (c *conversationService) RequestStop(ctx context.Context, req *dto.RequestStopRequest) (*dto.RequestStopResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: req.SessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, dialogue.ErrSessionNotFound
	}

	participant, err := c.findParticipant(ctx, uow, req.SessionId, req.ParticipantKey)
	if err != nil {
		return nil, err
	}

	// Stopping an already-concluded conversation is a no-op, not an error.
	if participant.Concluded {
		return &dto.RequestStopResponse{Stopped: true}, nil
	}

	guardKey := participant.Id.String()
	if !c.turnGuard.Acquire(guardKey) {
		// A turn is mid-flight; the stop applies when that turn commits.
		c.turnGuard.MarkStopRequested(guardKey)
		return &dto.RequestStopResponse{Queued: true}, nil
	}
	defer c.turnGuard.Release(guardKey)

	now := time.Now()
	participant.Concluded = true
	participant.ConcludedAt = &now
	participant.FinalStatus = constant.FinalStatusPending
	if err := uow.ParticipantRepository().Update(ctx, participant); err != nil {
		return nil, err
	}

	c.concludeParticipant(ctx, session, participant, policy.ReasonStopRequested)

	if c.broadcaster != nil {
		c.broadcaster.BroadcastProgress(session.Id, participant.Key, c.progressDTO(participant))
	}
	return &dto.RequestStopResponse{Stopped: true}, nil
}

func (c *conversationService) RetryFinalization(ctx context.Context, sessionId uuid.UUID, participantKey string) (*dto.RetryFinalizationResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	participant, err := c.findParticipant(ctx, uow, sessionId, participantKey)
	if err != nil {
		return nil, err
	}
	if !participant.Concluded {
		return nil, dialogue.ErrConversationActive
	}
	if participant.FinalStatus == constant.FinalStatusDone {
		return nil, dialogue.ErrFinalizationDone
	}

	c.finalize(ctx, participant)

	return &dto.RetryFinalizationResponse{
		ParticipantKey: participant.Key,
		FinalStatus:    participant.FinalStatus,
	}, nil
}

func (c *conversationService) GetProgress(ctx context.Context, sessionId uuid.UUID, participantKey string) (*dto.ProgressDTO, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	participant, err := c.findParticipant(ctx, uow, sessionId, participantKey)
	if err != nil {
		return nil, err
	}
	progress := c.progressDTO(participant)
	return &progress, nil
}

func (c *conversationService) GetHistory(ctx context.Context, sessionId uuid.UUID, participantKey string) (*dto.GetHistoryResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	participant, err := c.findParticipant(ctx, uow, sessionId, participantKey)
	if err != nil {
		return nil, err
	}

	turns, err := uow.DialogueTurnRepository().FindAll(ctx,
		specification.ByParticipantID{ParticipantID: participant.Id},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	resp := &dto.GetHistoryResponse{
		ParticipantKey: participant.Key,
		Turns:          make([]dto.TurnDTO, 0, len(turns)),
	}
	for _, t := range turns {
		resp.Turns = append(resp.Turns, dto.TurnDTO{
			Role:      t.Role,
			Content:   t.Content,
			CreatedAt: t.CreatedAt,
		})
	}
	return resp, nil
}

func (c *conversationService) GetFinalDocument(ctx context.Context, sessionId uuid.UUID, participantKey string) (*dto.GetFinalDocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	participant, err := c.findParticipant(ctx, uow, sessionId, participantKey)
	if err != nil {
		return nil, err
	}

	return &dto.GetFinalDocumentResponse{
		ParticipantKey: participant.Key,
		FinalStatus:    participant.FinalStatus,
		FinalDocument:  participant.FinalDocument,
		ConcludedAt:    participant.ConcludedAt,
	}, nil
}

// applyQueuedStop consumes a stop flag that arrived while this turn held the
// guard and concludes the participant. Reports whether a stop was applied.
func (c *conversationService) applyQueuedStop(ctx context.Context, session *entity.DiscussionSession, participant *entity.Participant, guardKey string) bool {
	if !c.turnGuard.StopRequested(guardKey) {
		return false
	}
	c.turnGuard.ClearStop(guardKey)
	if participant.Concluded {
		return false
	}

	now := time.Now()
	participant.Concluded = true
	participant.ConcludedAt = &now
	participant.FinalStatus = constant.FinalStatusPending

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ParticipantRepository().Update(ctx, participant); err != nil {
		c.logger.Error("conversation", "failed to persist queued stop", map[string]interface{}{
			"participant_id": participant.Id.String(),
			"error":          err.Error(),
		})
	}

	c.concludeParticipant(ctx, session, participant, policy.ReasonStopRequested)
	return true
}

// concludeParticipant runs the terminal actions after a conversation ends:
// finalization, the concluded event, and a log line. The participant row is
// already marked concluded.
func (c *conversationService) concludeParticipant(ctx context.Context, session *entity.DiscussionSession, participant *entity.Participant, reason string) {
	c.finalize(ctx, participant)

	if c.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeParticipantConcluded,
			Data: map[string]interface{}{
				"session_id":      session.Id.String(),
				"participant_key": participant.Key,
				"reason":          reason,
				"final_status":    participant.FinalStatus,
			},
		}
		if err := c.eventPublisher.Publish(ctx, evt); err != nil {
			c.logger.Warn("conversation", "failed to publish concluded event", map[string]interface{}{
				"participant_id": participant.Id.String(),
				"error":          err.Error(),
			})
		}
	}

	c.logger.Info("conversation", "participant concluded", map[string]interface{}{
		"session_id":      session.Id.String(),
		"participant_key": participant.Key,
		"reason":          reason,
		"final_status":    participant.FinalStatus,
	})
}

// finalize runs the synthesizer over the notes log and persists the result.
// Failure leaves an explicit failed marker so RetryFinalization can run.
func (c *conversationService) finalize(ctx context.Context, participant *entity.Participant) {
	doc, err := c.facilitator.Finalize(ctx, constant.FinalizationPrompt, participant.Notes)
	if err != nil {
		participant.FinalStatus = constant.FinalStatusFailed
		c.logger.Error("conversation", "finalization failed", map[string]interface{}{
			"participant_id": participant.Id.String(),
			"error":          err.Error(),
		})
	} else {
		participant.FinalDocument = doc
		participant.FinalStatus = constant.FinalStatusDone
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ParticipantRepository().Update(ctx, participant); err != nil {
		c.logger.Error("conversation", "failed to persist finalization result", map[string]interface{}{
			"participant_id": participant.Id.String(),
			"error":          err.Error(),
		})
	}
}

func (c *conversationService) findParticipant(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID, key string) (*entity.Participant, error) {
	participant, err := uow.ParticipantRepository().FindOne(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.ByParticipantKey{Key: key},
	)
	if err != nil {
		return nil, err
	}
	if participant == nil {
		return nil, dialogue.ErrParticipantNotFound
	}
	return participant, nil
}

func (c *conversationService) findOrCreateParticipant(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.DiscussionSession, req *dto.SubmitMessageRequest) (*entity.Participant, error) {
	participant, err := uow.ParticipantRepository().FindOne(ctx,
		specification.BySessionID{SessionID: session.Id},
		specification.ByParticipantKey{Key: req.ParticipantKey},
	)
	if err != nil {
		return nil, err
	}
	if participant != nil {
		return participant, nil
	}

	// First message: seed the plan snapshot. Every turn re-resolves it from
	// the session, so moderator edits reach running conversations; only the
	// participant's position in the plan is never renumbered.
	participant = &entity.Participant{
		Id:           uuid.New(),
		SessionId:    session.Id,
		Key:          req.ParticipantKey,
		DisplayName:  req.DisplayName,
		PlanSnapshot: append([]string(nil), session.Questions...),
		Notes:        []string{},
		CreatedAt:    time.Now(),
	}
	if err := uow.ParticipantRepository().Create(ctx, participant); err != nil {
		return nil, err
	}
	return participant, nil
}

func (c *conversationService) limitsFor(session *entity.DiscussionSession, participant *entity.Participant) policy.Limits {
	limits := c.defaultLimits
	if session.FollowupLimit > 0 {
		limits.FollowupLimit = session.FollowupLimit
	}
	if session.NoNewInfoLimit > 0 {
		limits.NoNewInfoLimit = session.NoNewInfoLimit
	}
	limits.PlanLength = len(participant.PlanSnapshot)
	return limits
}

func (c *conversationService) progressDTO(participant *entity.Participant) dto.ProgressDTO {
	return dto.ProgressDTO{
		QuestionIndex:  participant.QuestionIndex,
		QuestionsTotal: len(participant.PlanSnapshot),
		FollowupsUsed:  participant.FollowupCount,
		NoNewInfoRuns:  participant.NoNewInfoRuns,
		MessageCount:   participant.MessageCount,
		Concluded:      participant.Concluded,
	}
}

func facilitatorSystemPrompt(session *entity.DiscussionSession) string {
	var sb strings.Builder
	sb.WriteString(constant.FacilitatorBasePrompt)
	if session.FacilitatorBrief != "" {
		sb.WriteString("\n\n" + session.FacilitatorBrief)
	}
	sb.WriteString(fmt.Sprintf("\n\nDiscussion topic: %s", session.Topic))
	sb.WriteString("\n\n" + constant.FacilitatorReasoningPrompt)
	sb.WriteString("\n\n" + constant.FacilitatorOutputInstructions)
	return sb.String()
}

func currentQuestion(plan []string, index int) string {
	if index >= 0 && index < len(plan) {
		return plan[index]
	}
	return ""
}
