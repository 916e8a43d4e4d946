// Package retrieval maintains the per-session vector index over the
// moderator's knowledge base and answers similarity queries against it.
package retrieval

import (
	"context"
	"fmt"
	"time"

	"discusschat-be/internal/constant"
	"discusschat-be/internal/entity"
	"discusschat-be/internal/pkg/logger"
	"discusschat-be/internal/repository/contract"
	"discusschat-be/internal/repository/unitofwork"
	"discusschat-be/pkg/embedding"
	"discusschat-be/pkg/utils"

	"github.com/google/uuid"
)

type IRetrievalService interface {
	// Build replaces the session's index from the given corpus and returns
	// the number of chunks indexed.
	Build(ctx context.Context, sessionId uuid.UUID, corpus string) (int, error)

	// Query returns up to k chunks most similar to the text, best first.
	Query(ctx context.Context, sessionId uuid.UUID, text string, k int) ([]*contract.ScoredCorpusChunk, error)
}

type retrievalService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewRetrievalService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IRetrievalService {
	return &retrievalService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (s *retrievalService) Build(ctx context.Context, sessionId uuid.UUID, corpus string) (int, error) {
	chunks := utils.SplitText(corpus, constant.ChunkSize, constant.ChunkOverlap)
	s.logger.Info("retrieval", "corpus split for indexing", map[string]interface{}{
		"session_id": sessionId.String(),
		"chunks":     len(chunks),
	})

	// The whole knowledge base is one source document per rebuild.
	documentId := uuid.New()

	var newChunks []*entity.CorpusChunk
	for i, chunk := range chunks {
		res, err := s.embeddingProvider.Generate(chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			// A failed chunk degrades the index instead of failing the build.
			s.logger.Warn("retrieval", "skipping chunk after embedding failure", map[string]interface{}{
				"session_id":  sessionId.String(),
				"chunk_index": i,
				"error":       err.Error(),
			})
			continue
		}

		newChunks = append(newChunks, &entity.CorpusChunk{
			Id:             uuid.New(),
			SessionId:      sessionId,
			DocumentId:     documentId,
			ChunkIndex:     i,
			Content:        chunk,
			EmbeddingValue: res.Embedding.Values,
			CreatedAt:      time.Now(),
		})
	}

	// Old and new sets swap atomically: a query never sees a half-built index.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin index rebuild: %w", err)
	}
	defer uow.Rollback()

	if err := uow.CorpusChunkRepository().DeleteBySessionId(ctx, sessionId); err != nil {
		return 0, fmt.Errorf("failed to clear old index: %w", err)
	}
	if len(newChunks) > 0 {
		if err := uow.CorpusChunkRepository().CreateBulk(ctx, newChunks); err != nil {
			return 0, fmt.Errorf("failed to insert new index: %w", err)
		}
	}
	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit index rebuild: %w", err)
	}

	s.logger.Info("retrieval", "index rebuilt", map[string]interface{}{
		"session_id": sessionId.String(),
		"indexed":    len(newChunks),
		"skipped":    len(chunks) - len(newChunks),
	})
	return len(newChunks), nil
}

func (s *retrievalService) Query(ctx context.Context, sessionId uuid.UUID, text string, k int) ([]*contract.ScoredCorpusChunk, error) {
	if k <= 0 {
		k = constant.RetrievalTopK
	}

	res, err := s.embeddingProvider.Generate(text, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.CorpusChunkRepository().SearchSimilarWithScore(ctx, res.Embedding.Values, k, sessionId, 0)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}
	if scored == nil {
		scored = []*contract.ScoredCorpusChunk{}
	}
	return scored, nil
}
