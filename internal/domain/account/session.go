package account

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"lexid/internal/shared/biztime"
)

// Session is a persisted refresh-token record. The refresh token itself
// is stored only as a SHA-256 hash; the literal bearer string presented
// by the caller is the logical lookup key.
type Session struct {
	ID               string
	AccountID        uint
	RefreshTokenHash string
	IPAddress        string
	UserAgent        string
	ExpiresAt        time.Time
	LastActivityAt   time.Time
	CreatedAt        time.Time
}

// NewSession creates a session for an account. The refresh token hash is
// set by the caller after the token pair is minted.
func NewSession(accountID uint, ipAddress, userAgent string, expiresAt time.Time) (*Session, error) {
	if accountID == 0 {
		return nil, fmt.Errorf("account ID is required")
	}

	id, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := biztime.NowUTC()
	return &Session{
		ID:             id,
		AccountID:      accountID,
		IPAddress:      ipAddress,
		UserAgent:      userAgent,
		ExpiresAt:      expiresAt,
		LastActivityAt: now,
		CreatedAt:      now,
	}, nil
}

// IsExpired reports whether the session has passed its deadline
func (s *Session) IsExpired() bool {
	return biztime.NowUTC().After(s.ExpiresAt)
}

func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// SessionRepository persists refresh-token sessions. Delete reports
// not-found when the row no longer exists so that concurrent rotation
// resolves to exactly one winner.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByRefreshTokenHash(ctx context.Context, refreshTokenHash string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteByRefreshTokenHash(ctx context.Context, refreshTokenHash string) error
	DeleteByAccountID(ctx context.Context, accountID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}
