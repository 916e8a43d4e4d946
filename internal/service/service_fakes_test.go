package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"discusschat-be/internal/dto"
	"discusschat-be/internal/entity"
	"discusschat-be/internal/repository/contract"
	"discusschat-be/internal/repository/specification"
	"discusschat-be/internal/repository/unitofwork"
	"discusschat-be/pkg/facilitator"
	"discusschat-be/pkg/llm"

	"github.com/google/uuid"
)

// In-memory fakes standing in for the GORM repositories. Specifications are
// interpreted structurally rather than as SQL.

type fakeSessionRepo struct {
	contract.SessionRepository
	sessions map[uuid.UUID]*entity.DiscussionSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[uuid.UUID]*entity.DiscussionSession{}}
}

func (r *fakeSessionRepo) Create(ctx context.Context, s *entity.DiscussionSession) error {
	copied := *s
	r.sessions[s.Id] = &copied
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, s *entity.DiscussionSession) error {
	copied := *s
	r.sessions[s.Id] = &copied
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DiscussionSession, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			if s, found := r.sessions[byID.ID]; found {
				copied := *s
				return &copied, nil
			}
		}
	}
	return nil, nil
}

type fakeParticipantRepo struct {
	contract.ParticipantRepository
	participants map[uuid.UUID]*entity.Participant
	updates      int
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{participants: map[uuid.UUID]*entity.Participant{}}
}

func (r *fakeParticipantRepo) Create(ctx context.Context, p *entity.Participant) error {
	copied := *p
	r.participants[p.Id] = &copied
	return nil
}

func (r *fakeParticipantRepo) Update(ctx context.Context, p *entity.Participant) error {
	copied := *p
	r.participants[p.Id] = &copied
	r.updates++
	return nil
}

func (r *fakeParticipantRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Participant, error) {
	var sessionID *uuid.UUID
	var key *string
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.BySessionID:
			id := s.SessionID
			sessionID = &id
		case specification.ByParticipantKey:
			k := s.Key
			key = &k
		}
	}
	for _, p := range r.participants {
		if sessionID != nil && p.SessionId != *sessionID {
			continue
		}
		if key != nil && p.Key != *key {
			continue
		}
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeParticipantRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Participant, error) {
	concludedOnly := false
	var status *string
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ConcludedOnly:
			concludedOnly = true
		case specification.ByFinalStatus:
			st := s.Status
			status = &st
		}
	}
	var out []*entity.Participant
	for _, p := range r.participants {
		if concludedOnly && !p.Concluded {
			continue
		}
		if status != nil && p.FinalStatus != *status {
			continue
		}
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

type fakeTurnRepo struct {
	contract.DialogueTurnRepository
	turns []*entity.DialogueTurn
}

func (r *fakeTurnRepo) Create(ctx context.Context, t *entity.DialogueTurn) error {
	copied := *t
	r.turns = append(r.turns, &copied)
	return nil
}

func (r *fakeTurnRepo) CreateBulk(ctx context.Context, turns []*entity.DialogueTurn) error {
	for _, t := range turns {
		copied := *t
		r.turns = append(r.turns, &copied)
	}
	return nil
}

func (r *fakeTurnRepo) FindRecent(ctx context.Context, participantId uuid.UUID, limit int) ([]*entity.DialogueTurn, error) {
	var out []*entity.DialogueTurn
	for _, t := range r.turns {
		if t.ParticipantId == participantId {
			out = append(out, t)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *fakeTurnRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DialogueTurn, error) {
	var participantID *uuid.UUID
	for _, spec := range specs {
		if byP, ok := spec.(specification.ByParticipantID); ok {
			id := byP.ParticipantID
			participantID = &id
		}
	}
	var out []*entity.DialogueTurn
	for _, t := range r.turns {
		if participantID != nil && t.ParticipantId != *participantID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

type fakeReportRepo struct {
	contract.SynthesisReportRepository
	reports map[uuid.UUID]*entity.SynthesisReport // keyed by session id
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: map[uuid.UUID]*entity.SynthesisReport{}}
}

func (r *fakeReportRepo) Upsert(ctx context.Context, report *entity.SynthesisReport) error {
	copied := *report
	r.reports[report.SessionId] = &copied
	return nil
}

func (r *fakeReportRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SynthesisReport, error) {
	for _, spec := range specs {
		if bySession, ok := spec.(specification.BySessionID); ok {
			if rep, found := r.reports[bySession.SessionID]; found {
				copied := *rep
				return &copied, nil
			}
		}
	}
	return nil, nil
}

type fakeUow struct {
	unitofwork.UnitOfWork
	sessions     *fakeSessionRepo
	participants *fakeParticipantRepo
	turns        *fakeTurnRepo
	reports      *fakeReportRepo
	mu           sync.Mutex
	commits      int
	beginErr     error
	onCommit     func() // runs inside Commit, before it returns
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		sessions:     newFakeSessionRepo(),
		participants: newFakeParticipantRepo(),
		turns:        &fakeTurnRepo{},
		reports:      newFakeReportRepo(),
	}
}

func (u *fakeUow) Begin(ctx context.Context) error { return u.beginErr }
func (u *fakeUow) Commit() error {
	u.mu.Lock()
	u.commits++
	u.mu.Unlock()
	if u.onCommit != nil {
		u.onCommit()
	}
	return nil
}
func (u *fakeUow) Rollback() error { return nil }

func (u *fakeUow) SessionRepository() contract.SessionRepository {
	return u.sessions
}

func (u *fakeUow) ParticipantRepository() contract.ParticipantRepository {
	return u.participants
}

func (u *fakeUow) DialogueTurnRepository() contract.DialogueTurnRepository {
	return u.turns
}

func (u *fakeUow) SynthesisReportRepository() contract.SynthesisReportRepository {
	return u.reports
}

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

// fakeFacilitator scripts judgments and documents per call. onJudge runs at
// the start of every Judge call, standing in for events that land while the
// model is thinking.
type fakeFacilitator struct {
	judgments  []*facilitator.Judgment
	judgeErr   error
	judgeCalls int
	onJudge    func()

	finalizeDoc   string
	finalizeErr   error
	finalizeCalls int

	report        *facilitator.Report
	synthesizeErr error
}

func (f *fakeFacilitator) Judge(ctx context.Context, messages []llm.Message) (*facilitator.Judgment, error) {
	i := f.judgeCalls
	f.judgeCalls++
	if f.onJudge != nil {
		f.onJudge()
	}
	if f.judgeErr != nil {
		return nil, f.judgeErr
	}
	if i < len(f.judgments) {
		return f.judgments[i], nil
	}
	return &facilitator.Judgment{Reply: "noted", NewInformation: true, NotesEntry: "entry"}, nil
}

func (f *fakeFacilitator) Finalize(ctx context.Context, system string, notes []string) (string, error) {
	f.finalizeCalls++
	if f.finalizeErr != nil {
		return "", f.finalizeErr
	}
	if f.finalizeDoc != "" {
		return f.finalizeDoc, nil
	}
	return "final document", nil
}

func (f *fakeFacilitator) Synthesize(ctx context.Context, system string, documents []string) (*facilitator.Report, error) {
	if f.synthesizeErr != nil {
		return nil, f.synthesizeErr
	}
	if f.report != nil {
		return f.report, nil
	}
	return &facilitator.Report{
		Consensus:          []string{"agreement"},
		Disagreement:       []string{},
		SentimentStrength:  []string{},
		Confusion:          []string{},
		MissingInformation: []string{},
	}, nil
}

type fakeRetrieval struct {
	queryErr error
}

func (f *fakeRetrieval) Build(ctx context.Context, sessionId uuid.UUID, corpus string) (int, error) {
	return 0, nil
}

func (f *fakeRetrieval) Query(ctx context.Context, sessionId uuid.UUID, text string, k int) ([]*contract.ScoredCorpusChunk, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return []*contract.ScoredCorpusChunk{}, nil
}

type recordingBroadcaster struct {
	calls []dto.ProgressDTO
}

func (b *recordingBroadcaster) BroadcastProgress(sessionId uuid.UUID, participantKey string, progress dto.ProgressDTO) {
	b.calls = append(b.calls, progress)
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

var errBoom = errors.New("boom")

func sessionFixture(id uuid.UUID) *entity.DiscussionSession {
	return &entity.DiscussionSession{
		Id:             id,
		Topic:          "city transit plan",
		Questions:      []string{"Q1", "Q2", "Q3"},
		FollowupLimit:  3,
		NoNewInfoLimit: 2,
		IsActive:       true,
		CreatedAt:      time.Now(),
	}
}
