package usecases

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lexid/internal/application/account/helpers"
	"lexid/internal/domain/account"
	vo "lexid/internal/domain/account/valueobjects"
	"lexid/internal/shared/biztime"
	"lexid/internal/shared/config"
	apperrors "lexid/internal/shared/errors"
	"lexid/internal/shared/logger"
)

// ---- in-memory account repository ----

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[uint]*account.Account
	nextID   uint
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uint]*account.Account), nextID: 1}
}

func (r *fakeAccountRepo) Create(ctx context.Context, acc *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.ExternalProviderID() != nil && acc.ExternalProviderID() != nil &&
			*existing.ExternalProviderID() == *acc.ExternalProviderID() {
			return account.NewExternalIDLinkedError()
		}
		if existing.Username().String() == acc.Username().String() {
			return account.NewUsernameTakenError()
		}
		if existing.Email().String() == acc.Email().String() {
			return account.NewEmailTakenError()
		}
	}

	id := r.nextID
	r.nextID++
	if err := acc.SetID(id); err != nil {
		return err
	}
	r.accounts[id] = acc
	return nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id uint) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[id]
	if !ok || !acc.IsActive() {
		return nil, nil
	}
	return acc, nil
}

func (r *fakeAccountRepo) GetByUsername(ctx context.Context, username string) (*account.Account, error) {
	return r.find(func(a *account.Account) bool { return a.Username().String() == username })
}

func (r *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	return r.find(func(a *account.Account) bool { return a.Email().String() == email })
}

func (r *fakeAccountRepo) GetByExternalID(ctx context.Context, externalID string) (*account.Account, error) {
	return r.find(func(a *account.Account) bool {
		return a.ExternalProviderID() != nil && *a.ExternalProviderID() == externalID
	})
}

func (r *fakeAccountRepo) find(match func(*account.Account) bool) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, acc := range r.accounts {
		if acc.IsActive() && match(acc) {
			return acc, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) Update(ctx context.Context, acc *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[acc.ID()]; !ok {
		return apperrors.NewNotFoundError("account not found")
	}
	r.accounts[acc.ID()] = acc
	return nil
}

func (r *fakeAccountRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	acc, _ := r.GetByUsername(ctx, username)
	return acc != nil, nil
}

func (r *fakeAccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	acc, _ := r.GetByEmail(ctx, email)
	return acc != nil, nil
}

// ---- in-memory session repository ----

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*account.Session // keyed by session ID
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*account.Session)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, s *account.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) GetByRefreshTokenHash(ctx context.Context, hash string) (*account.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.RefreshTokenHash == hash && !s.IsExpired() {
			return s, nil
		}
	}
	return nil, apperrors.NewNotFoundError("session not found")
}

func (r *fakeSessionRepo) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; !ok {
		return apperrors.NewNotFoundError("session not found")
	}
	delete(r.sessions, sessionID)
	return nil
}

func (r *fakeSessionRepo) DeleteByRefreshTokenHash(ctx context.Context, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.RefreshTokenHash == hash {
			delete(r.sessions, id)
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteByAccountID(ctx context.Context, accountID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.AccountID == accountID {
			delete(r.sessions, id)
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, s := range r.sessions {
		if s.IsExpired() {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (r *fakeSessionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// ---- in-memory oauth state repository ----

type fakeStateRepo struct {
	mu     sync.Mutex
	states map[string]*account.OAuthState
}

func newFakeStateRepo() *fakeStateRepo {
	return &fakeStateRepo{states: make(map[string]*account.OAuthState)}
}

func (r *fakeStateRepo) Create(ctx context.Context, s *account.OAuthState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[s.StateToken] = s
	return nil
}

func (r *fakeStateRepo) Consume(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.states[token]
	if !ok {
		return apperrors.NewUnauthorizedError("invalid state token", "invalid_state")
	}
	if s.IsExpired() {
		return apperrors.NewUnauthorizedError("state token expired", "expired_state")
	}
	delete(r.states, token)
	return nil
}

func (r *fakeStateRepo) DeleteExpired(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for token, s := range r.states {
		if s.IsExpired() {
			delete(r.states, token)
			removed++
		}
	}
	return removed, nil
}

// ---- fake jwt service ----

type fakeJWTService struct {
	mu      sync.Mutex
	counter int
	issued  map[string]struct {
		claims TokenClaims
		kind   TokenKind
	}
}

func newFakeJWTService() *fakeJWTService {
	return &fakeJWTService{issued: make(map[string]struct {
		claims TokenClaims
		kind   TokenKind
	})}
}

func (s *fakeJWTService) Generate(accountID uint, username, email, sessionID string) (*TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	claims := TokenClaims{AccountID: accountID, Username: username, Email: email}
	access := fmt.Sprintf("access-%d-%s-%d", accountID, sessionID, s.counter)
	refresh := fmt.Sprintf("refresh-%d-%s-%d", accountID, sessionID, s.counter)
	s.issued[access] = struct {
		claims TokenClaims
		kind   TokenKind
	}{claims, TokenKindAccess}
	s.issued[refresh] = struct {
		claims TokenClaims
		kind   TokenKind
	}{claims, TokenKindRefresh}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresIn: 3600}, nil
}

func (s *fakeJWTService) Verify(tokenString string, kind TokenKind) (*TokenClaims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.issued[tokenString]
	if !ok || entry.kind != kind {
		return nil, apperrors.NewTokenInvalidError(string(kind) + " token")
	}
	claims := entry.claims
	return &claims, nil
}

// ---- fake password hasher ----

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Verify(password, hash string) error {
	if "hashed:"+password != hash {
		return fmt.Errorf("hash mismatch")
	}
	return nil
}

// ---- fake oauth client ----

type fakeOAuthClient struct {
	userInfo        *OAuthUserInfo
	exchangeErr     error
	userInfoErr     error
	lastAuthedState string
}

func (c *fakeOAuthClient) AuthCodeURL(state string) string {
	c.lastAuthedState = state
	return "https://provider.example.com/auth?state=" + state
}

func (c *fakeOAuthClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	if c.exchangeErr != nil {
		return "", c.exchangeErr
	}
	return "provider-token-" + code, nil
}

func (c *fakeOAuthClient) GetUserInfo(ctx context.Context, accessToken string) (*OAuthUserInfo, error) {
	if c.userInfoErr != nil {
		return nil, c.userInfoErr
	}
	return c.userInfo, nil
}

// ---- shared fixture ----

var testJWTConfig = config.JWTConfig{
	Secret:           "test-secret",
	Issuer:           "lexid",
	Audience:         "lexid-api",
	AccessExpMinutes: 60,
	RefreshExpDays:   7,
}

func newTestAuthHelper(sessionRepo account.SessionRepository) *helpers.AuthHelper {
	return helpers.NewAuthHelper(sessionRepo, logger.NewLogger())
}

func seedLocalAccount(t *testing.T, repo *fakeAccountRepo, username, email, password string) *account.Account {
	t.Helper()
	un, err := vo.NewUsername(username)
	require.NoError(t, err)
	em, err := vo.NewEmail(email)
	require.NoError(t, err)
	hash, err := fakeHasher{}.Hash(password)
	require.NoError(t, err)
	acc, err := account.NewLocalAccount(un, em, hash)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), acc))
	return acc
}

func seedExternalAccount(t *testing.T, repo *fakeAccountRepo, username, email, externalID string) *account.Account {
	t.Helper()
	un, err := vo.NewUsername(username)
	require.NoError(t, err)
	em, err := vo.NewEmail(email)
	require.NoError(t, err)
	dn, err := vo.NewDisplayName("Player")
	require.NoError(t, err)
	acc, err := account.NewExternalAccount(un, em, externalID, dn, "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), acc))
	return acc
}

func seedState(t *testing.T, repo *fakeStateRepo, ttl time.Duration) *account.OAuthState {
	t.Helper()
	state, err := account.NewOAuthState(ttl)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), state))
	return state
}

func seedSession(t *testing.T, repo *fakeSessionRepo, accountID uint, refreshToken string, ttl time.Duration) *account.Session {
	t.Helper()
	helper := newTestAuthHelper(repo)
	sess, err := account.NewSession(accountID, "198.51.100.7", "test-agent", biztime.NowUTC().Add(ttl))
	require.NoError(t, err)
	sess.RefreshTokenHash = helper.HashToken(refreshToken)
	require.NoError(t, repo.Create(context.Background(), sess))
	return sess
}
