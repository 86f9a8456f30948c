package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Idea struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkspaceId  uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title        string         `gorm:"type:varchar(255);not null"`
	ProblemText  string         `gorm:"type:text"`
	Status       string         `gorm:"type:idea_status;not null;default:'under_review';index"`
	VoteCount    int            `gorm:"not null;default:0"`
	MergedIntoId *uuid.UUID     `gorm:"type:uuid;index"` // set iff Status = merged
	FrequencyTag string         `gorm:"type:varchar(50)"`
	ImpactTag    string         `gorm:"type:varchar(50)"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Idea) TableName() string {
	return "ideas"
}
