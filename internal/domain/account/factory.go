package account

import (
	"fmt"
	"time"

	vo "lexid/internal/domain/account/valueobjects"
)

// NewLocalAccount creates an account with a password credential and no
// external provider linkage.
func NewLocalAccount(username *vo.Username, email *vo.Email, passwordHash string) (*Account, error) {
	if username == nil {
		return nil, fmt.Errorf("username is required")
	}
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required for a local account")
	}

	now := time.Now().UTC()
	return &Account{
		username:     username,
		email:        email,
		passwordHash: &passwordHash,
		isActive:     true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// NewExternalAccount creates an OAuth-only account: no password hash,
// identity anchored to the provider id.
func NewExternalAccount(username *vo.Username, email *vo.Email, externalID string, displayName *vo.DisplayName, avatarURL string) (*Account, error) {
	if username == nil {
		return nil, fmt.Errorf("username is required")
	}
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}
	if externalID == "" {
		return nil, fmt.Errorf("external provider id is required for an external account")
	}

	now := time.Now().UTC()
	return &Account{
		username:           username,
		email:              email,
		displayName:        displayName,
		avatarURL:          avatarURL,
		externalProviderID: &externalID,
		isActive:           true,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// ReconstructAccount rebuilds an account from persistence. The invariant
// that at least one credential exists is assumed to hold for stored rows.
func ReconstructAccount(
	id uint,
	username *vo.Username,
	email *vo.Email,
	displayName *vo.DisplayName,
	avatarURL string,
	passwordHash *string,
	externalProviderID *string,
	isActive bool,
	createdAt, updatedAt time.Time,
) (*Account, error) {
	if id == 0 {
		return nil, fmt.Errorf("account ID cannot be zero")
	}
	if username == nil {
		return nil, fmt.Errorf("username is required")
	}
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}

	return &Account{
		id:                 id,
		username:           username,
		email:              email,
		displayName:        displayName,
		avatarURL:          avatarURL,
		passwordHash:       passwordHash,
		externalProviderID: externalProviderID,
		isActive:           isActive,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}, nil
}
