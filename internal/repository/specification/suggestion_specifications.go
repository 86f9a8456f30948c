package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvolvingIdea matches suggestions where the idea is either pair member.
type InvolvingIdea struct {
	IdeaID uuid.UUID
}

func (s InvolvingIdea) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source_idea_id = ? OR duplicate_idea_id = ?", s.IdeaID, s.IdeaID)
}

type PendingOnly struct{}

func (s PendingOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = 'pending'")
}
