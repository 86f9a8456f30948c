package contract

import (
	"context"

	"idea-board-be/internal/entity"
	"idea-board-be/internal/repository/specification"

	"github.com/google/uuid"
)

type IdeaRepository interface {
	Create(ctx context.Context, idea *entity.Idea) error
	Update(ctx context.Context, idea *entity.Idea) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Idea, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Idea, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// Advanced
	// FindMissingEmbedding pages live ideas that have no embedding row yet,
	// ordered by id, resuming past afterId (keyset, offset-free).
	FindMissingEmbedding(ctx context.Context, afterId *uuid.UUID, limit int) ([]*entity.Idea, error)
	// EligibleWorkspaceIds returns workspaces owning at least minIdeas
	// non-merged ideas.
	EligibleWorkspaceIds(ctx context.Context, minIdeas int) ([]uuid.UUID, error)
}
