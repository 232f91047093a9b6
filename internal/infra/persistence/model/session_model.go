package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionModel mirrors the 'sessions' table. The user id is the primary key,
// so each user holds at most one active refresh token at any time.
type SessionModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primary_key"`
	TokenHash string    `gorm:"type:varchar(64);unique;not null"`
	IssuedAt  time.Time `gorm:"not null"`
	RotatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// TableName explicitly sets the table name for GORM.
func (SessionModel) TableName() string {
	return "sessions"
}
