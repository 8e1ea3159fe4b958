package models

import (
	"time"

	"lexid/internal/shared/constants"
)

// OAuthStateModel is the persistence model for single-use CSRF state
// tokens. Persisting them (instead of an in-process map) keeps the
// service restartable and horizontally scalable.
type OAuthStateModel struct {
	StateToken string    `gorm:"primarykey;size:64"`
	ExpiresAt  time.Time `gorm:"not null;index"`
	CreatedAt  time.Time
}

// TableName specifies the table name for GORM
func (OAuthStateModel) TableName() string {
	return constants.TableOAuthStates
}
