package entity

import (
	"time"

	"github.com/google/uuid"
)

// Idea status values (idea_status enum).
const (
	IdeaStatusUnderReview = "under_review"
	IdeaStatusPublished   = "published"
	IdeaStatusDeclined    = "declined"
	IdeaStatusMerged      = "merged"
)

// Frequency/impact tags submitted with an idea. Free-form beyond these,
// but only the known values carry scoring weight.
const (
	FrequencyTagDaily  = "daily"
	FrequencyTagWeekly = "weekly"
	ImpactTagBlocker   = "blocker"
	ImpactTagMajor     = "major"
)

type Idea struct {
	Id           uuid.UUID
	WorkspaceId  uuid.UUID
	Title        string
	ProblemText  string
	Status       string
	VoteCount    int
	MergedIntoId *uuid.UUID // non-nil iff Status == merged; never points at another merged idea
	FrequencyTag string
	ImpactTag    string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

func (i *Idea) IsMerged() bool {
	return i.Status == IdeaStatusMerged
}
