package unitofwork

import (
	"context"

	"idea-board-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	WorkspaceRepository() contract.WorkspaceRepository
	IdeaRepository() contract.IdeaRepository
	VoteRepository() contract.VoteRepository
	ContributorRepository() contract.ContributorRepository
	DuplicateSuggestionRepository() contract.DuplicateSuggestionRepository
	IdeaEmbeddingRepository() contract.IdeaEmbeddingRepository
}
