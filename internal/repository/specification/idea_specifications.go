package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByWorkspaceID struct {
	WorkspaceID uuid.UUID
}

func (s ByWorkspaceID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("workspace_id = ?", s.WorkspaceID)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// NotMerged keeps only live ideas. Merged ideas are excluded from
// detection, clustering and vote queries.
type NotMerged struct{}

func (s NotMerged) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status <> 'merged'")
}

type ByIdeaID struct {
	IdeaID uuid.UUID
}

func (s ByIdeaID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("idea_id = ?", s.IdeaID)
}

type ByIdeaIDs struct {
	IdeaIDs []uuid.UUID
}

func (s ByIdeaIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("idea_id IN ?", s.IdeaIDs)
}
