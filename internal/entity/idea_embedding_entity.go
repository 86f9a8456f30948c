package entity

import (
	"time"

	"github.com/google/uuid"
)

type IdeaEmbedding struct {
	Id             uuid.UUID
	IdeaId         uuid.UUID
	Document       string
	EmbeddingValue []float32
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
