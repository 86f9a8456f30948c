package contract

import (
	"context"

	"idea-board-be/internal/entity"
	"idea-board-be/internal/repository/specification"

	"github.com/google/uuid"
)

type VoteRepository interface {
	Create(ctx context.Context, vote *entity.Vote) error
	Update(ctx context.Context, vote *entity.Vote) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Vote, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	CountDistinctContributors(ctx context.Context, ideaId uuid.UUID) (int64, error)
}

type ContributorRepository interface {
	Create(ctx context.Context, contributor *entity.Contributor) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Contributor, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Contributor, error)
}
