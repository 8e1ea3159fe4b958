package account

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"lexid/internal/shared/biztime"
)

// OAuthState is a short-lived, single-use CSRF token correlating an
// authorization request with its callback.
type OAuthState struct {
	StateToken string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// NewOAuthState creates a state record with a cryptographically random
// token and the given TTL.
func NewOAuthState(ttl time.Duration) (*OAuthState, error) {
	token, err := generateStateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	now := biztime.NowUTC()
	return &OAuthState{
		StateToken: token,
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
	}, nil
}

// IsExpired reports whether the state has passed its deadline
func (s *OAuthState) IsExpired() bool {
	return biztime.NowUTC().After(s.ExpiresAt)
}

func generateStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// StateRepository persists OAuth state tokens. Consume atomically reads
// and deletes in one operation; a second Consume with the same token
// always fails.
type StateRepository interface {
	Create(ctx context.Context, state *OAuthState) error
	Consume(ctx context.Context, stateToken string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
