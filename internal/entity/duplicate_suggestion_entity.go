package entity

import (
	"time"

	"github.com/google/uuid"
)

// Suggestion status values (suggestion_status enum).
const (
	SuggestionStatusPending   = "pending"
	SuggestionStatusMerged    = "merged"
	SuggestionStatusDismissed = "dismissed"
)

type DuplicateSuggestion struct {
	Id              uuid.UUID
	WorkspaceId     uuid.UUID
	SourceIdeaId    uuid.UUID
	DuplicateIdeaId uuid.UUID
	Similarity      float64
	Status          string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// OtherIdea returns the member of the pair that is not the given idea.
func (s *DuplicateSuggestion) OtherIdea(ideaId uuid.UUID) uuid.UUID {
	if s.SourceIdeaId == ideaId {
		return s.DuplicateIdeaId
	}
	return s.SourceIdeaId
}

// Involves reports whether ideaId is one of the two pair members.
func (s *DuplicateSuggestion) Involves(ideaId uuid.UUID) bool {
	return s.SourceIdeaId == ideaId || s.DuplicateIdeaId == ideaId
}
