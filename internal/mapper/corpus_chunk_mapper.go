package mapper

import (
	"discusschat-be/internal/entity"
	"discusschat-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type CorpusChunkMapper struct{}

func NewCorpusChunkMapper() *CorpusChunkMapper {
	return &CorpusChunkMapper{}
}

func (m *CorpusChunkMapper) ToEntity(c *model.CorpusChunk) *entity.CorpusChunk {
	if c == nil {
		return nil
	}

	return &entity.CorpusChunk{
		Id:             c.Id,
		SessionId:      c.SessionId,
		DocumentId:     c.DocumentId,
		ChunkIndex:     c.ChunkIndex,
		Content:        c.Content,
		EmbeddingValue: c.EmbeddingValue.Slice(),
		CreatedAt:      c.CreatedAt,
	}
}

func (m *CorpusChunkMapper) ToModel(c *entity.CorpusChunk) *model.CorpusChunk {
	if c == nil {
		return nil
	}

	return &model.CorpusChunk{
		Id:             c.Id,
		SessionId:      c.SessionId,
		DocumentId:     c.DocumentId,
		ChunkIndex:     c.ChunkIndex,
		Content:        c.Content,
		EmbeddingValue: pgvector.NewVector(c.EmbeddingValue),
		CreatedAt:      c.CreatedAt,
	}
}

func (m *CorpusChunkMapper) ToEntities(chunks []*model.CorpusChunk) []*entity.CorpusChunk {
	entities := make([]*entity.CorpusChunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *CorpusChunkMapper) ToModels(chunks []*entity.CorpusChunk) []*model.CorpusChunk {
	models := make([]*model.CorpusChunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}
