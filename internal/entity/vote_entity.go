package entity

import (
	"time"

	"github.com/google/uuid"
)

type Vote struct {
	Id                  uuid.UUID
	IdeaId              uuid.UUID
	ContributorId       uuid.UUID
	InheritedFromIdeaId *uuid.UUID
	CreatedAt           time.Time
}

// IsOrganic reports whether the vote was cast directly on the idea rather
// than absorbed from a merged child.
func (v *Vote) IsOrganic() bool {
	return v.InheritedFromIdeaId == nil
}

type Contributor struct {
	Id        uuid.UUID
	Email     string
	FullName  string
	CreatedAt time.Time
}
