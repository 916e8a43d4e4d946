package unitofwork

import (
	"context"

	"discusschat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SessionRepository() contract.SessionRepository
	ParticipantRepository() contract.ParticipantRepository
	DialogueTurnRepository() contract.DialogueTurnRepository
	CorpusChunkRepository() contract.CorpusChunkRepository
	SynthesisReportRepository() contract.SynthesisReportRepository
}
