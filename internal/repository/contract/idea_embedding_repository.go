package contract

import (
	"context"

	"idea-board-be/internal/entity"
	"idea-board-be/internal/repository/specification"

	"github.com/google/uuid"
)

type IdeaEmbeddingRepository interface {
	// Upsert writes the single embedding row for an idea, replacing any
	// previous vector (embeddings are regenerated when idea text changes).
	Upsert(ctx context.Context, embedding *entity.IdeaEmbedding) error
	DeleteByIdeaId(ctx context.Context, ideaId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.IdeaEmbedding, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.IdeaEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
