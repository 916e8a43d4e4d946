package service

import (
	"context"
	"testing"

	"discusschat-be/internal/constant"
	"discusschat-be/internal/dto"
	"discusschat-be/internal/repository/memory"
	"discusschat-be/pkg/dialogue"
	"discusschat-be/pkg/facilitator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConversationHarness(t *testing.T, fac *fakeFacilitator) (IConversationService, *fakeUow, *memory.TurnGuard, uuid.UUID) {
	t.Helper()

	uow := newFakeUow()
	sessionId := uuid.New()
	uow.sessions.sessions[sessionId] = sessionFixture(sessionId)

	guard := memory.NewTurnGuard()
	svc := NewConversationService(
		&fakeUowFactory{uow: uow},
		guard,
		fac,
		&fakeRetrieval{},
		nil,
		&recordingBroadcaster{},
		3, // default followup limit
		2, // default no-new-info limit
		nopLogger{},
	)
	return svc, uow, guard, sessionId
}

func TestSubmitMessageFirstContactCreatesParticipant(t *testing.T) {
	fac := &fakeFacilitator{}
	svc, uow, _, sessionId := newConversationHarness(t, fac)

	resp, err := svc.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
		SessionId:      sessionId,
		ParticipantKey: "alice",
		Message:        "I think the plan is solid.",
	})
	require.NoError(t, err)

	assert.Equal(t, "noted", resp.Reply)
	assert.False(t, resp.Concluded)
	assert.Equal(t, 1, resp.Progress.MessageCount)

	participant, err := uow.participants.FindOne(context.Background())
	require.NoError(t, err)
	require.NotNil(t, participant)
	assert.Equal(t, []string{"Q1", "Q2", "Q3"}, participant.PlanSnapshot)
	assert.Len(t, participant.Notes, 1)

	// participant turn + facilitator turn, in one commit
	assert.Len(t, uow.turns.turns, 2)
	assert.Equal(t, 1, uow.commits)
}

func TestSubmitMessageUnknownSession(t *testing.T) {
	svc, _, _, _ := newConversationHarness(t, &fakeFacilitator{})

	_, err := svc.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
		SessionId:      uuid.New(),
		ParticipantKey: "alice",
		Message:        "hello",
	})
	assert.ErrorIs(t, err, dialogue.ErrSessionNotFound)
}

func TestSubmitMessageBusyParticipantRejected(t *testing.T) {
	fac := &fakeFacilitator{}
	svc, uow, guard, sessionId := newConversationHarness(t, fac)

	// Establish the participant so the guard key is known.
	_, err := svc.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
		SessionId: sessionId, ParticipantKey: "alice", Message: "first",
	})
	require.NoError(t, err)

	participant, _ := uow.participants.FindOne(context.Background())
	require.True(t, guard.Acquire(participant.Id.String()))
	defer guard.Release(participant.Id.String())

	_, err = svc.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
		SessionId: sessionId, ParticipantKey: "alice", Message: "second",
	})
	assert.ErrorIs(t, err, dialogue.ErrTurnInFlight)

	// The busy rejection leaves no trace.
	assert.Len(t, uow.turns.turns, 2)
}

func TestSubmitMessageFacilitatorFailureLeavesNoState(t *testing.T) {
	fac := &fakeFacilitator{judgeErr: errBoom}
	svc, uow, _, sessionId := newConversationHarness(t, fac)

	_, err := svc.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
		SessionId: sessionId, ParticipantKey: "alice", Message: "hello",
	})
	require.Error(t, err)

	assert.Empty(t, uow.turns.turns)
	assert.Zero(t, uow.commits)
	participant, _ := uow.participants.FindOne(context.Background())
	require.NotNil(t, participant) // created on first contact
	assert.Equal(t, 0, participant.MessageCount)
	assert.Empty(t, participant.Notes)
}

// Two questions with followup_limit=1: exactly two messages conclude the
// conversation, finalization runs once, and the third message is rejected.
func TestSubmitMessageTightPlanConcludes(t *testing.T) {
	fac := &fakeFacilitator{finalizeDoc: "closing views"}
	uow := newFakeUow()
	sessionId := uuid.New()
	session := sessionFixture(sessionId)
	session.Questions = []string{"Q1", "Q2"}
	session.FollowupLimit = 1
	session.NoNewInfoLimit = 2
	uow.sessions.sessions[sessionId] = session

	svc := NewConversationService(&fakeUowFactory{uow: uow}, memory.NewTurnGuard(), fac,
		&fakeRetrieval{}, nil, nil, 3, 2, nopLogger{})

	first, err := svc.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
		SessionId: sessionId, ParticipantKey: "alice", Message: "answer one",
	})
	require.NoError(t, err)
	assert.False(t, first.Concluded)
	assert.Equal(t, 1, first.Progress.QuestionIndex)

	second, err := svc.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
		SessionId: sessionId, ParticipantKey: "alice", Message: "answer two",
	})
	require.NoError(t, err)
	assert.True(t, second.Concluded)

	participant, _ := uow.participants.FindOne(context.Background())
	assert.True(t, participant.Concluded)
	assert.Equal(t, constant.FinalStatusDone, participant.FinalStatus)
	assert.Equal(t, "closing views", participant.FinalDocument)
	assert.Equal(t, 1, fac.finalizeCalls)

	_, err = svc.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
		SessionId: sessionId, ParticipantKey: "alice", Message: "answer three",
	})
	assert.ErrorIs(t, err, dialogue.ErrConversationConcluded)
}

// A moderator plan edit reaches a running conversation on its next turn:
// extending a two-question plan to four between turns keeps the participant
// going instead of concluding against the stale length.
func TestSubmitMessagePlanEditAppliesNextTurn(t *testing.T) {
	fac := &fakeFacilitator{}
	uow := newFakeUow()
	sessionId := uuid.New()
	session := sessionFixture(sessionId)
	session.Questions = []string{"Q1", "Q2"}
	session.FollowupLimit = 1
	uow.sessions.sessions[sessionId] = session

	svc := NewConversationService(&fakeUowFactory{uow: uow}, memory.NewTurnGuard(), fac,
		&fakeRetrieval{}, nil, nil, 3, 2, nopLogger{})

	first, err := svc.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
		SessionId: sessionId, ParticipantKey: "alice", Message: "answer one",
	})
	require.NoError(t, err)
	assert.False(t, first.Concluded)
	assert.Equal(t, 1, first.Progress.QuestionIndex)

	session.Questions = []string{"Q1", "Q2", "Q3", "Q4"}

	second, err := svc.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
		SessionId: sessionId, ParticipantKey: "alice", Message: "answer two",
	})
	require.NoError(t, err)
	assert.False(t, second.Concluded)
	assert.Equal(t, 2, second.Progress.QuestionIndex)
	assert.Equal(t, 4, second.Progress.QuestionsTotal)

	participant, _ := uow.participants.FindOne(context.Background())
	assert.Equal(t, []string{"Q1", "Q2", "Q3", "Q4"}, participant.PlanSnapshot)
}

// Both rows of a turn carry the index of the question that was answered,
// even when that turn triggers an advance.
func TestSubmitMessageTurnsRecordAnsweredQuestion(t *testing.T) {
	fac := &fakeFacilitator{}
	uow := newFakeUow()
	sessionId := uuid.New()
	session := sessionFixture(sessionId)
	session.FollowupLimit = 1 // every answer advances
	uow.sessions.sessions[sessionId] = session

	svc := NewConversationService(&fakeUowFactory{uow: uow}, memory.NewTurnGuard(), fac,
		&fakeRetrieval{}, nil, nil, 3, 2, nopLogger{})

	resp, err := svc.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
		SessionId: sessionId, ParticipantKey: "alice", Message: "answer one",
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Progress.QuestionIndex)

	require.Len(t, uow.turns.turns, 2)
	assert.Equal(t, 0, uow.turns.turns[0].QuestionIndex)
	assert.Equal(t, 0, uow.turns.turns[1].QuestionIndex)
}

func TestSubmitMessageMessageCapConcludes(t *testing.T) {
	fac := &fakeFacilitator{}
	svc, uow, _, sessionId := newConversationHarness(t, fac)

	// Never advance: plenty of followups allowed, always novel.
	session := uow.sessions.sessions[sessionId]
	session.FollowupLimit = 100
	session.NoNewInfoLimit = 100
	session.Questions = make([]string, 50)
	for i := range session.Questions {
		session.Questions[i] = "Q"
	}

	var last *dto.SubmitMessageResponse
	for i := 0; i < constant.MaxParticipantMessages; i++ {
		resp, err := svc.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
			SessionId: sessionId, ParticipantKey: "bob", Message: "more detail",
		})
		require.NoError(t, err, "message %d", i+1)
		last = resp
	}
	require.True(t, last.Concluded)
	assert.Equal(t, constant.MaxParticipantMessages, last.Progress.MessageCount)
}

func TestSubmitMessageNotesNeverShrink(t *testing.T) {
	fac := &fakeFacilitator{
		judgments: []*facilitator.Judgment{
			{Reply: "r1", NewInformation: true, NotesEntry: "note one"},
			{Reply: "r2", NewInformation: true, NotesEntry: ""}, // nothing to add
			{Reply: "r3", NewInformation: true, NotesEntry: "note two"},
		},
	}
	svc, uow, _, sessionId := newConversationHarness(t, fac)

	prev := 0
	for i := 0; i < 3; i++ {
		_, err := svc.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
			SessionId: sessionId, ParticipantKey: "carol", Message: "msg",
		})
		require.NoError(t, err)
		participant, _ := uow.participants.FindOne(context.Background())
		require.GreaterOrEqual(t, len(participant.Notes), prev)
		prev = len(participant.Notes)
	}
	participant, _ := uow.participants.FindOne(context.Background())
	assert.Equal(t, []string{"note one", "note two"}, participant.Notes)
}

func TestRequestStopIdleParticipantConcludesImmediately(t *testing.T) {
	fac := &fakeFacilitator{}
	svc, uow, _, sessionId := newConversationHarness(t, fac)

	_, err := svc.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
		SessionId: sessionId, ParticipantKey: "alice", Message: "hi",
	})
	require.NoError(t, err)

	resp, err := svc.RequestStop(context.Background(), &dto.RequestStopRequest{
		SessionId: sessionId, ParticipantKey: "alice",
	})
	require.NoError(t, err)
	assert.True(t, resp.Stopped)
	assert.False(t, resp.Queued)

	participant, _ := uow.participants.FindOne(context.Background())
	assert.True(t, participant.Concluded)
	assert.Equal(t, constant.FinalStatusDone, participant.FinalStatus)

	// Stop is idempotent.
	again, err := svc.RequestStop(context.Background(), &dto.RequestStopRequest{
		SessionId: sessionId, ParticipantKey: "alice",
	})
	require.NoError(t, err)
	assert.True(t, again.Stopped)
	assert.Equal(t, 1, fac.finalizeCalls)
}

func TestRequestStopQueuedWhileTurnInFlight(t *testing.T) {
	fac := &fakeFacilitator{}
	svc, uow, guard, sessionId := newConversationHarness(t, fac)

	_, err := svc.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
		SessionId: sessionId, ParticipantKey: "alice", Message: "hi",
	})
	require.NoError(t, err)

	participant, _ := uow.participants.FindOne(context.Background())
	require.True(t, guard.Acquire(participant.Id.String()))

	resp, err := svc.RequestStop(context.Background(), &dto.RequestStopRequest{
		SessionId: sessionId, ParticipantKey: "alice",
	})
	require.NoError(t, err)
	assert.True(t, resp.Queued)
	assert.True(t, guard.StopRequested(participant.Id.String()))
	guard.Release(participant.Id.String())

	// The queued stop applies when the in-flight turn commits.
	turn, err := svc.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
		SessionId: sessionId, ParticipantKey: "alice", Message: "one more thought",
	})
	require.NoError(t, err)
	assert.True(t, turn.Concluded)
	assert.Equal(t, "stop_requested", turn.ConcludeReason)
	assert.False(t, guard.StopRequested(participant.Id.String()))
}

// A stop arriving after the judgment is evaluated but before the turn
// commits is applied as soon as the turn completes, not parked until some
// future message.
func TestRequestStopAfterEvaluationAppliesOnCommit(t *testing.T) {
	fac := &fakeFacilitator{}
	svc, uow, guard, sessionId := newConversationHarness(t, fac)

	uow.onCommit = func() {
		participant, _ := uow.participants.FindOne(context.Background())
		if participant != nil {
			guard.MarkStopRequested(participant.Id.String())
		}
	}

	resp, err := svc.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
		SessionId: sessionId, ParticipantKey: "alice", Message: "hi",
	})
	require.NoError(t, err)
	assert.True(t, resp.Concluded)
	assert.Equal(t, "stop_requested", resp.ConcludeReason)

	participant, _ := uow.participants.FindOne(context.Background())
	assert.True(t, participant.Concluded)
	assert.Equal(t, constant.FinalStatusDone, participant.FinalStatus)
	assert.Equal(t, 1, fac.finalizeCalls)
	assert.False(t, guard.StopRequested(participant.Id.String()))
}

// A stop queued while the model call fails still concludes the participant;
// only the turn itself is discarded.
func TestRequestStopDuringFailedTurnStillApplies(t *testing.T) {
	fac := &fakeFacilitator{judgeErr: errBoom}
	svc, uow, guard, sessionId := newConversationHarness(t, fac)
	fac.onJudge = func() {
		participant, _ := uow.participants.FindOne(context.Background())
		guard.MarkStopRequested(participant.Id.String())
	}

	_, err := svc.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
		SessionId: sessionId, ParticipantKey: "alice", Message: "hi",
	})
	require.Error(t, err)

	assert.Empty(t, uow.turns.turns)
	assert.Zero(t, uow.commits)

	participant, _ := uow.participants.FindOne(context.Background())
	require.NotNil(t, participant)
	assert.True(t, participant.Concluded)
	assert.Equal(t, constant.FinalStatusDone, participant.FinalStatus)
	assert.False(t, guard.StopRequested(participant.Id.String()))
}

func TestRetryFinalizationActiveParticipantRejected(t *testing.T) {
	fac := &fakeFacilitator{}
	svc, _, _, sessionId := newConversationHarness(t, fac)

	_, err := svc.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
		SessionId: sessionId, ParticipantKey: "alice", Message: "hi",
	})
	require.NoError(t, err)

	_, err = svc.RetryFinalization(context.Background(), sessionId, "alice")
	assert.ErrorIs(t, err, dialogue.ErrConversationActive)
}

func TestRetryFinalization(t *testing.T) {
	fac := &fakeFacilitator{finalizeErr: errBoom}
	uow := newFakeUow()
	sessionId := uuid.New()
	session := sessionFixture(sessionId)
	session.Questions = []string{"Q1"}
	session.FollowupLimit = 1
	uow.sessions.sessions[sessionId] = session

	svc := NewConversationService(&fakeUowFactory{uow: uow}, memory.NewTurnGuard(), fac,
		&fakeRetrieval{}, nil, nil, 3, 2, nopLogger{})

	resp, err := svc.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
		SessionId: sessionId, ParticipantKey: "alice", Message: "done",
	})
	require.NoError(t, err)
	require.True(t, resp.Concluded)

	participant, _ := uow.participants.FindOne(context.Background())
	assert.Equal(t, constant.FinalStatusFailed, participant.FinalStatus)

	// The synthesizer recovers; retry succeeds.
	fac.finalizeErr = nil
	fac.finalizeDoc = "recovered document"
	retry, err := svc.RetryFinalization(context.Background(), sessionId, "alice")
	require.NoError(t, err)
	assert.Equal(t, constant.FinalStatusDone, retry.FinalStatus)

	participant, _ = uow.participants.FindOne(context.Background())
	assert.Equal(t, "recovered document", participant.FinalDocument)

	// A second attempt after success is rejected.
	_, err = svc.RetryFinalization(context.Background(), sessionId, "alice")
	assert.ErrorIs(t, err, dialogue.ErrFinalizationDone)
}

func TestGetHistoryAndFinalDocument(t *testing.T) {
	fac := &fakeFacilitator{}
	svc, _, _, sessionId := newConversationHarness(t, fac)

	_, err := svc.SubmitMessage(context.Background(), &dto.SubmitMessageRequest{
		SessionId: sessionId, ParticipantKey: "alice", Message: "opening statement",
	})
	require.NoError(t, err)

	history, err := svc.GetHistory(context.Background(), sessionId, "alice")
	require.NoError(t, err)
	require.Len(t, history.Turns, 2)
	assert.Equal(t, constant.TurnRoleParticipant, history.Turns[0].Role)
	assert.Equal(t, constant.TurnRoleFacilitator, history.Turns[1].Role)

	_, err = svc.GetHistory(context.Background(), sessionId, "nobody")
	assert.ErrorIs(t, err, dialogue.ErrParticipantNotFound)

	doc, err := svc.GetFinalDocument(context.Background(), sessionId, "alice")
	require.NoError(t, err)
	assert.Empty(t, doc.FinalDocument) // still active
}
