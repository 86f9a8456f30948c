package dto

import "github.com/google/uuid"

// DetectionRunStats aggregates one scheduled run across all workspaces.
type DetectionRunStats struct {
	WorkspacesProcessed int `json:"workspacesProcessed"`
	EmbeddingsSynced    int `json:"embeddingsSynced"`
	SuggestionsCreated  int `json:"suggestionsCreated"`
	Errors              int `json:"errors"`
}

// PublishEmbedIdeaMessage is the embed-queue payload: regenerate the
// embedding for one idea.
type PublishEmbedIdeaMessage struct {
	IdeaId uuid.UUID `json:"ideaId"`
}
