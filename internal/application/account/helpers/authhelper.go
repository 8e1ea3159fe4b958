package helpers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"lexid/internal/domain/account"
	"lexid/internal/shared/biztime"
	"lexid/internal/shared/logger"
)

// AuthHelper centralizes session bookkeeping shared by the credential
// flows. Every flow that mints a token pair persists its session through
// CreateAndSaveSessionWithTokens so the hash-before-store rule lives in
// one place.
type AuthHelper struct {
	sessionRepo account.SessionRepository
	logger      logger.Interface
}

// NewAuthHelper creates a new AuthHelper
func NewAuthHelper(sessionRepo account.SessionRepository, logger logger.Interface) *AuthHelper {
	return &AuthHelper{
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// HashToken generates the SHA-256 hash of a token for storage. The
// literal token string never reaches the database.
func (h *AuthHelper) HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// SessionWithTokens bundles a persisted session with the freshly minted pair
type SessionWithTokens struct {
	Session      *account.Session
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// CreateAndSaveSessionWithTokens mints a token pair via the supplied
// generator, then persists a session keyed by the refresh token's hash.
// The fresh session id is handed to the generator so the minted pair is
// unique to this session.
func (h *AuthHelper) CreateAndSaveSessionWithTokens(
	ctx context.Context,
	accountID uint,
	ipAddress string,
	userAgent string,
	ttl time.Duration,
	generate func(sessionID string) (accessToken string, refreshToken string, expiresIn int64, err error),
) (*SessionWithTokens, error) {
	session, err := account.NewSession(accountID, ipAddress, userAgent, biztime.NowUTC().Add(ttl))
	if err != nil {
		h.logger.Errorw("failed to create session", "error", err, "account_id", accountID)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, refreshToken, expiresIn, err := generate(session.ID)
	if err != nil {
		h.logger.Errorw("failed to generate tokens", "error", err, "account_id", accountID)
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	session.RefreshTokenHash = h.HashToken(refreshToken)

	if err := h.sessionRepo.Create(ctx, session); err != nil {
		h.logger.Errorw("failed to persist session", "error", err, "account_id", accountID)
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return &SessionWithTokens{
		Session:      session,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}
