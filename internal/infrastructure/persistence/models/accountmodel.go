package models

import (
	"time"

	"lexid/internal/shared/constants"
)

// AccountModel represents the database persistence model for accounts.
// This is the anti-corruption layer between domain and database.
// Accounts are deactivated, never hard-deleted.
type AccountModel struct {
	ID                 uint    `gorm:"primarykey"`
	Username           string  `gorm:"uniqueIndex:idx_accounts_username;not null;size:30"`
	Email              string  `gorm:"uniqueIndex:idx_accounts_email;not null;size:255"`
	DisplayName        string  `gorm:"size:100"`
	AvatarURL          string  `gorm:"size:500"`
	PasswordHash       *string `gorm:"size:255"`
	ExternalProviderID *string `gorm:"uniqueIndex:idx_accounts_external_provider_id;size:255"`
	IsActive           bool    `gorm:"not null;default:true;index"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName specifies the table name for GORM
func (AccountModel) TableName() string {
	return constants.TableAccounts
}
