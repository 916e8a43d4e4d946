package entity

import (
	"time"

	"github.com/google/uuid"
)

// CorpusChunk is one embedded slice of a session's knowledge base.
type CorpusChunk struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId      uuid.UUID `gorm:"type:uuid;index"`
	DocumentId     uuid.UUID `gorm:"type:uuid"`
	ChunkIndex     int
	Content        string
	EmbeddingValue []float32
	CreatedAt      time.Time
}
