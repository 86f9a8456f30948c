package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Contributor struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string         `gorm:"type:varchar(255);not null;uniqueIndex"`
	FullName  string         `gorm:"type:varchar(255)"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Contributor) TableName() string {
	return "contributors"
}
