package dto

import (
	"time"

	"github.com/google/uuid"
)

type MergeSuggestionRequest struct {
	KeepIdeaId uuid.UUID `json:"keepIdeaId" validate:"required"`
}

// MergeActionResponse is shared by merge and dismiss. AlreadyProcessed is
// true when the suggestion had been resolved before this call; callers must
// treat that as success.
type MergeActionResponse struct {
	Ok               bool `json:"ok"`
	AlreadyProcessed bool `json:"alreadyProcessed"`
}

type ClusterIdeaResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	VoteCount int       `json:"voteCount"`
	CreatedAt time.Time `json:"createdAt"`
}

type ClusterEdgeResponse struct {
	SuggestionId    uuid.UUID `json:"suggestionId"`
	SourceIdeaId    uuid.UUID `json:"sourceIdeaId"`
	DuplicateIdeaId uuid.UUID `json:"duplicateIdeaId"`
	Similarity      float64   `json:"similarity"`
}

type ClusterResponse struct {
	CanonicalId uuid.UUID             `json:"canonicalId"`
	Ideas       []ClusterIdeaResponse `json:"ideas"`
	Suggestions []ClusterEdgeResponse `json:"suggestions"`
}

type MergeClusterRequest struct {
	CanonicalId   uuid.UUID   `json:"canonicalId" validate:"required"`
	SuggestionIds []uuid.UUID `json:"suggestionIds" validate:"required,min=1"`
}

type MergeClusterFailure struct {
	SuggestionId uuid.UUID `json:"suggestionId"`
	Reason       string    `json:"reason"`
}

// MergeClusterResponse reports per-pair outcomes; a failing pair never fails
// the batch.
type MergeClusterResponse struct {
	Merged           []uuid.UUID           `json:"merged"`
	AlreadyProcessed []uuid.UUID           `json:"alreadyProcessed"`
	Failed           []MergeClusterFailure `json:"failed"`
}
