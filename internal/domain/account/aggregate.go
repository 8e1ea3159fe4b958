package account

import (
	"fmt"
	"time"

	vo "lexid/internal/domain/account/valueobjects"
)

// Account represents the account aggregate root (pure domain model
// without persistence concerns). An account always has at least one
// credential: a password hash, an external provider id, or both.
type Account struct {
	id                 uint
	username           *vo.Username
	email              *vo.Email
	displayName        *vo.DisplayName
	avatarURL          string
	passwordHash       *string
	externalProviderID *string
	isActive           bool
	createdAt          time.Time
	updatedAt          time.Time
}

// ID returns the account ID
func (a *Account) ID() uint {
	return a.id
}

// Username returns the account's username
func (a *Account) Username() *vo.Username {
	return a.username
}

// Email returns the account's email
func (a *Account) Email() *vo.Email {
	return a.email
}

// DisplayName returns the account's display name, falling back to the
// username when none was set
func (a *Account) DisplayName() string {
	if a.displayName == nil || a.displayName.IsEmpty() {
		return a.username.String()
	}
	return a.displayName.String()
}

// AvatarURL returns the account's avatar URL
func (a *Account) AvatarURL() string {
	return a.avatarURL
}

// PasswordHash returns the stored password hash, nil for OAuth-only accounts
func (a *Account) PasswordHash() *string {
	return a.passwordHash
}

// ExternalProviderID returns the linked identity-provider id, nil if unlinked
func (a *Account) ExternalProviderID() *string {
	return a.externalProviderID
}

// IsActive reports whether the account may authenticate
func (a *Account) IsActive() bool {
	return a.isActive
}

// CreatedAt returns when the account was created
func (a *Account) CreatedAt() time.Time {
	return a.createdAt
}

// UpdatedAt returns when the account was last updated
func (a *Account) UpdatedAt() time.Time {
	return a.updatedAt
}

// HasPassword reports whether password login is available
func (a *Account) HasPassword() bool {
	return a.passwordHash != nil && *a.passwordHash != ""
}

// SetID sets the account ID (only for persistence layer use)
func (a *Account) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("account ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("account ID cannot be zero")
	}
	a.id = id
	return nil
}

// VerifyPassword checks the plaintext password against the stored hash
func (a *Account) VerifyPassword(plaintext string, hasher PasswordHasher) error {
	if !a.HasPassword() {
		return fmt.Errorf("password not set")
	}
	return hasher.Verify(plaintext, *a.passwordHash)
}

// LinkExternalID attaches an identity-provider id to the account
// (account linking). Any existing password credential is preserved.
func (a *Account) LinkExternalID(externalID string) error {
	if externalID == "" {
		return fmt.Errorf("external provider id cannot be empty")
	}
	if a.externalProviderID != nil {
		return fmt.Errorf("account is already linked to an external provider")
	}
	a.externalProviderID = &externalID
	a.updatedAt = time.Now().UTC()
	return nil
}

// Deactivate marks the account inactive. This is the terminal state;
// accounts are never hard-deleted.
func (a *Account) Deactivate() {
	a.isActive = false
	a.updatedAt = time.Now().UTC()
}
