package model

import (
	"time"

	"github.com/google/uuid"
)

// Vote rows are unique per (idea, contributor). InheritedFromIdeaId is set
// when the vote was moved here by a merge, so organic and inherited votes
// can be counted separately.
type Vote struct {
	Id                  uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IdeaId              uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_votes_idea_contributor"`
	ContributorId       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_votes_idea_contributor"`
	InheritedFromIdeaId *uuid.UUID `gorm:"type:uuid"`
	CreatedAt           time.Time  `gorm:"autoCreateTime"`
}

func (Vote) TableName() string {
	return "votes"
}
