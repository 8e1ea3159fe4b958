package models

import (
	"time"

	"lexid/internal/shared/constants"
)

// SessionModel is the persistence model for refresh-token sessions
type SessionModel struct {
	ID               string    `gorm:"primarykey;size:64"`
	AccountID        uint      `gorm:"not null;index"`
	RefreshTokenHash string    `gorm:"not null;uniqueIndex;size:64"`
	IPAddress        string    `gorm:"size:45"`
	UserAgent        string    `gorm:"size:512"`
	ExpiresAt        time.Time `gorm:"not null;index"`
	LastActivityAt   time.Time `gorm:"not null"`
	CreatedAt        time.Time
}

// TableName specifies the table name for GORM
func (SessionModel) TableName() string {
	return constants.TableSessions
}
