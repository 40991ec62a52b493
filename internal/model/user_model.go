package model

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors the identity provider's subject. Rows are created on the first
// authenticated request and refreshed from token claims afterwards.
type User struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email       string    `gorm:"type:varchar(255);not null;index"`
	DisplayName *string   `gorm:"type:varchar(255)"`
	AvatarURL   *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
