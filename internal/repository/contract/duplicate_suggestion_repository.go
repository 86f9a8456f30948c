package contract

import (
	"context"

	"idea-board-be/internal/entity"
	"idea-board-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DuplicateSuggestionRepository interface {
	// CreateIfAbsent inserts the suggestion unless a row for the same pair
	// already exists (any status). Returns true when a row was created.
	CreateIfAbsent(ctx context.Context, suggestion *entity.DuplicateSuggestion) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DuplicateSuggestion, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DuplicateSuggestion, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// UpdateStatusIfPending flips status only when the row is still PENDING.
	// The returned row count is the optimistic-concurrency signal: zero means
	// another merge got there first.
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status string) (int64, error)
	// DismissPendingInvolving cascades a merge: every other PENDING suggestion
	// touching ideaId is dismissed. Returns the number of rows dismissed.
	DismissPendingInvolving(ctx context.Context, ideaId uuid.UUID, excludeSuggestionId uuid.UUID) (int64, error)
}
