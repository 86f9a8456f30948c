package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByID filters by ID
type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// ByIDs filters by a list of IDs
type ByIDs struct {
	IDs []uuid.UUID
}

func (s ByIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id IN ?", s.IDs)
}

// AfterID filters rows with an id strictly greater than the given one.
// Used for keyset pagination so concurrent inserts don't shift pages.
type AfterID struct {
	ID uuid.UUID
}

func (s AfterID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id > ?", s.ID)
}
