package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DuplicateSuggestion stores one row per unordered idea pair. The pair is
// normalized before insert (smaller uuid string into SourceIdeaId), so the
// unique index covers both orientations.
type DuplicateSuggestion struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkspaceId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	SourceIdeaId    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_suggestions_pair"`
	DuplicateIdeaId uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_suggestions_pair"`
	Similarity      float64        `gorm:"type:double precision;not null"`
	Status          string         `gorm:"type:suggestion_status;not null;default:'pending';index"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (DuplicateSuggestion) TableName() string {
	return "duplicate_suggestions"
}
