package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexid/internal/application/account/usecases"
	"lexid/internal/domain/account"
	vo "lexid/internal/domain/account/valueobjects"
	"lexid/internal/interfaces/http/handlers/testutil"
	"lexid/internal/shared/constants"
	apperrors "lexid/internal/shared/errors"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockRegisterUC struct {
	result *usecases.RegisterResult
	err    error
}

func (m *mockRegisterUC) Execute(ctx context.Context, cmd usecases.RegisterCommand) (*usecases.RegisterResult, error) {
	return m.result, m.err
}

type mockLoginUC struct {
	result *usecases.LoginResult
	err    error
}

func (m *mockLoginUC) Execute(ctx context.Context, cmd usecases.LoginCommand) (*usecases.LoginResult, error) {
	return m.result, m.err
}

type mockInitiateOAuthUC struct {
	result *usecases.InitiateOAuthLoginResult
	err    error
}

func (m *mockInitiateOAuthUC) Execute(ctx context.Context) (*usecases.InitiateOAuthLoginResult, error) {
	return m.result, m.err
}

type mockHandleOAuthUC struct {
	result  *usecases.HandleOAuthCallbackResult
	err     error
	lastCmd usecases.HandleOAuthCallbackCommand
}

func (m *mockHandleOAuthUC) Execute(ctx context.Context, cmd usecases.HandleOAuthCallbackCommand) (*usecases.HandleOAuthCallbackResult, error) {
	m.lastCmd = cmd
	return m.result, m.err
}

type mockRefreshTokenUC struct {
	result *usecases.RefreshTokenResult
	err    error
}

func (m *mockRefreshTokenUC) Execute(ctx context.Context, cmd usecases.RefreshTokenCommand) (*usecases.RefreshTokenResult, error) {
	return m.result, m.err
}

type mockLogoutUC struct {
	err    error
	called bool
}

func (m *mockLogoutUC) Execute(ctx context.Context, cmd usecases.LogoutCommand) error {
	m.called = true
	return m.err
}

type mockGetAccountUC struct {
	account *account.Account
	err     error
}

func (m *mockGetAccountUC) Execute(ctx context.Context, accountID uint) (*account.Account, error) {
	return m.account, m.err
}

// =====================================================================
// Test helpers
// =====================================================================

func createTestAccount() *account.Account {
	username, _ := vo.NewUsername("alice")
	email, _ := vo.NewEmail("alice@example.com")
	hash := "$2a$12$abcdefghijklmnopqrstuv"
	now := time.Now().UTC()

	acc, _ := account.ReconstructAccount(
		1, username, email,
		nil, "",
		&hash, nil,
		true, now, now,
	)
	return acc
}

func newTestAuthHandler(
	registerUC registerUseCase,
	loginUC loginUseCase,
	initiateOAuthUC initiateOAuthUseCase,
	handleOAuthUC handleOAuthCallbackUseCase,
	refreshTokenUC refreshTokenUseCase,
	logoutUC logoutUseCase,
	getAccountUC getAccountUseCase,
) *AuthHandler {
	return NewAuthHandler(
		registerUC, loginUC, initiateOAuthUC, handleOAuthUC,
		refreshTokenUC, logoutUC, getAccountUC,
		testutil.NewMockLogger(),
	)
}

func authResult() (*account.Account, string, string, int64) {
	return createTestAccount(), "access-token", "refresh-token", int64(900)
}

// =====================================================================
// TestAuthHandler_Register
// =====================================================================

func TestAuthHandler_Register_Success(t *testing.T) {
	acc, access, refresh, expiresIn := authResult()
	mockUC := &mockRegisterUC{result: &usecases.RegisterResult{
		Account:      acc,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
	}}
	handler := newTestAuthHandler(mockUC, nil, nil, nil, nil, nil, nil)

	reqBody := RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	}
	c, w := testutil.NewTestContext(http.MethodPost, "/auth/register", reqBody)

	handler.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp testutil.APIResponse
	err := testutil.ParseResponse(w, &resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)

	var data AuthResponse
	err = json.Unmarshal(resp.Data, &data)
	require.NoError(t, err)
	assert.Equal(t, "alice", data.Account.Username)
	assert.Equal(t, access, data.Tokens.AccessToken)
	assert.Equal(t, refresh, data.Tokens.RefreshToken)
	assert.True(t, data.Account.HasPassword)
}

func TestAuthHandler_Register_InvalidRequest(t *testing.T) {
	handler := newTestAuthHandler(nil, nil, nil, nil, nil, nil, nil)

	reqBody := map[string]string{"username": "alice"} // missing email, password
	c, w := testutil.NewTestContext(http.MethodPost, "/auth/register", reqBody)

	handler.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp testutil.APIResponse
	err := testutil.ParseResponse(w, &resp)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.NotNil(t, resp.Error)
}

func TestAuthHandler_Register_UsernameConflict(t *testing.T) {
	mockUC := &mockRegisterUC{err: account.NewUsernameTakenError()}
	handler := newTestAuthHandler(mockUC, nil, nil, nil, nil, nil, nil)

	reqBody := RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	}
	c, w := testutil.NewTestContext(http.MethodPost, "/auth/register", reqBody)

	handler.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp testutil.APIResponse
	err := testutil.ParseResponse(w, &resp)
	require.NoError(t, err)
	assert.False(t, resp.Success)
}

// =====================================================================
// TestAuthHandler_Login
// =====================================================================

func TestAuthHandler_Login_Success(t *testing.T) {
	acc, access, refresh, expiresIn := authResult()
	mockUC := &mockLoginUC{result: &usecases.LoginResult{
		Account:      acc,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
	}}
	handler := newTestAuthHandler(nil, mockUC, nil, nil, nil, nil, nil)

	reqBody := LoginRequest{Username: "alice", Password: "password123"}
	c, w := testutil.NewTestContext(http.MethodPost, "/auth/login", reqBody)

	handler.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	err := testutil.ParseResponse(w, &resp)
	require.NoError(t, err)

	var data AuthResponse
	err = json.Unmarshal(resp.Data, &data)
	require.NoError(t, err)
	assert.Equal(t, access, data.Tokens.AccessToken)
	assert.Equal(t, int64(900), data.Tokens.ExpiresIn)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mockUC := &mockLoginUC{err: apperrors.NewInvalidCredentialsError()}
	handler := newTestAuthHandler(nil, mockUC, nil, nil, nil, nil, nil)

	reqBody := LoginRequest{Username: "alice", Password: "wrong"}
	c, w := testutil.NewTestContext(http.MethodPost, "/auth/login", reqBody)

	handler.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp testutil.APIResponse
	err := testutil.ParseResponse(w, &resp)
	require.NoError(t, err)
	assert.Equal(t, string(apperrors.ErrorTypeInvalidCredentials), resp.Error.Type)
}

func TestAuthHandler_Login_PasswordNotSet(t *testing.T) {
	mockUC := &mockLoginUC{err: apperrors.NewPasswordNotSetError()}
	handler := newTestAuthHandler(nil, mockUC, nil, nil, nil, nil, nil)

	reqBody := LoginRequest{Username: "alice", Password: "password123"}
	c, w := testutil.NewTestContext(http.MethodPost, "/auth/login", reqBody)

	handler.Login(c)

	var resp testutil.APIResponse
	err := testutil.ParseResponse(w, &resp)
	require.NoError(t, err)
	assert.Equal(t, string(apperrors.ErrorTypePasswordNotSet), resp.Error.Type)
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	handler := newTestAuthHandler(nil, nil, nil, nil, nil, nil, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/auth/login", map[string]string{"username": "alice"})

	handler.Login(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =====================================================================
// TestAuthHandler_OAuthLogin
// =====================================================================

func TestAuthHandler_OAuthLogin_Success(t *testing.T) {
	mockUC := &mockInitiateOAuthUC{result: &usecases.InitiateOAuthLoginResult{
		AuthorizationURL: "https://accounts.google.com/o/oauth2/auth?state=abc",
		State:            "abc",
	}}
	handler := newTestAuthHandler(nil, nil, mockUC, nil, nil, nil, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/auth/oauth/google", nil)

	handler.OAuthLogin(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	err := testutil.ParseResponse(w, &resp)
	require.NoError(t, err)

	var data map[string]string
	err = json.Unmarshal(resp.Data, &data)
	require.NoError(t, err)
	assert.Contains(t, data["authorization_url"], "state=abc")
}

func TestAuthHandler_OAuthLogin_StoreError(t *testing.T) {
	mockUC := &mockInitiateOAuthUC{err: apperrors.NewInternalError("state store unavailable")}
	handler := newTestAuthHandler(nil, nil, mockUC, nil, nil, nil, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/auth/oauth/google", nil)

	handler.OAuthLogin(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// =====================================================================
// TestAuthHandler_OAuthCallback
// =====================================================================

func runCallback(t *testing.T, params map[string]string) (*mockHandleOAuthUC, int, *testutil.APIResponse) {
	t.Helper()

	acc, access, refresh, expiresIn := authResult()
	mockUC := &mockHandleOAuthUC{result: &usecases.HandleOAuthCallbackResult{
		Account:      acc,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
	}}
	handler := newTestAuthHandler(nil, nil, nil, mockUC, nil, nil, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/auth/oauth/google/callback", nil)
	testutil.SetQueryParams(c, params)

	handler.OAuthCallback(c)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	return mockUC, w.Code, &resp
}

func TestAuthHandler_OAuthCallback_Success(t *testing.T) {
	mockUC, code, resp := runCallback(t, map[string]string{"code": "authcode", "state": "statetoken"})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "authcode", mockUC.lastCmd.Code)
	assert.Equal(t, "statetoken", mockUC.lastCmd.State)
	assert.True(t, resp.Success)
}

func TestAuthHandler_OAuthCallback_NewAccountCreated(t *testing.T) {
	acc, access, refresh, expiresIn := authResult()
	mockUC := &mockHandleOAuthUC{result: &usecases.HandleOAuthCallbackResult{
		Account:      acc,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
		IsNewAccount: true,
	}}
	handler := newTestAuthHandler(nil, nil, nil, mockUC, nil, nil, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/auth/oauth/google/callback", nil)
	testutil.SetQueryParams(c, map[string]string{"code": "authcode", "state": "statetoken"})

	handler.OAuthCallback(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAuthHandler_OAuthCallback_MissingCode(t *testing.T) {
	_, code, resp := runCallback(t, map[string]string{"state": "statetoken"})

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, string(constants.OAuthErrorMissingCode), resp.Error.Type)
}

func TestAuthHandler_OAuthCallback_MissingState(t *testing.T) {
	_, code, resp := runCallback(t, map[string]string{"code": "authcode"})

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, string(constants.OAuthErrorMissingState), resp.Error.Type)
}

func TestAuthHandler_OAuthCallback_ProviderDenied(t *testing.T) {
	_, code, resp := runCallback(t, map[string]string{"error": "access_denied"})

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, string(constants.OAuthErrorAccessDenied), resp.Error.Type)
}

func TestAuthHandler_OAuthCallback_ProviderError(t *testing.T) {
	_, code, resp := runCallback(t, map[string]string{"error": "temporarily_unavailable"})

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, string(constants.OAuthErrorServerError), resp.Error.Type)
}

func TestAuthHandler_OAuthCallback_InvalidState(t *testing.T) {
	mockUC := &mockHandleOAuthUC{err: apperrors.NewUnauthorizedError("invalid state token", string(constants.OAuthErrorInvalidState))}
	handler := newTestAuthHandler(nil, nil, nil, mockUC, nil, nil, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/auth/oauth/google/callback", nil)
	testutil.SetQueryParams(c, map[string]string{"code": "authcode", "state": "forged"})

	handler.OAuthCallback(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.Equal(t, string(constants.OAuthErrorInvalidState), resp.Error.Type)
}

func TestAuthHandler_OAuthCallback_ExchangeFailed(t *testing.T) {
	mockUC := &mockHandleOAuthUC{err: apperrors.NewOAuthError("google", "exchange", string(constants.OAuthErrorExchangeFailed))}
	handler := newTestAuthHandler(nil, nil, nil, mockUC, nil, nil, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/auth/oauth/google/callback", nil)
	testutil.SetQueryParams(c, map[string]string{"code": "badcode", "state": "statetoken"})

	handler.OAuthCallback(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.Equal(t, string(constants.OAuthErrorExchangeFailed), resp.Error.Type)
	// the response carries only the stable reason code and message
	assert.NotContains(t, resp.Error.Message, "google")
}

// =====================================================================
// TestAuthHandler_RefreshToken
// =====================================================================

func TestAuthHandler_RefreshToken_Success(t *testing.T) {
	mockUC := &mockRefreshTokenUC{result: &usecases.RefreshTokenResult{
		AccessToken:  "new-access",
		RefreshToken: "new-refresh",
		ExpiresIn:    900,
	}}
	handler := newTestAuthHandler(nil, nil, nil, nil, mockUC, nil, nil)

	reqBody := RefreshTokenRequest{RefreshToken: "old-refresh"}
	c, w := testutil.NewTestContext(http.MethodPost, "/auth/refresh", reqBody)

	handler.RefreshToken(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	err := testutil.ParseResponse(w, &resp)
	require.NoError(t, err)

	var data AuthTokensResponse
	err = json.Unmarshal(resp.Data, &data)
	require.NoError(t, err)
	assert.Equal(t, "new-access", data.AccessToken)
	assert.Equal(t, "new-refresh", data.RefreshToken)
}

func TestAuthHandler_RefreshToken_SessionExpired(t *testing.T) {
	mockUC := &mockRefreshTokenUC{err: apperrors.NewSessionExpiredError()}
	handler := newTestAuthHandler(nil, nil, nil, nil, mockUC, nil, nil)

	reqBody := RefreshTokenRequest{RefreshToken: "rotated-already"}
	c, w := testutil.NewTestContext(http.MethodPost, "/auth/refresh", reqBody)

	handler.RefreshToken(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.Equal(t, string(apperrors.ErrorTypeSessionExpired), resp.Error.Type)
}

func TestAuthHandler_RefreshToken_MissingToken(t *testing.T) {
	handler := newTestAuthHandler(nil, nil, nil, nil, nil, nil, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/auth/refresh", map[string]string{})

	handler.RefreshToken(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =====================================================================
// TestAuthHandler_Logout
// =====================================================================

func TestAuthHandler_Logout_Success(t *testing.T) {
	mockUC := &mockLogoutUC{}
	handler := newTestAuthHandler(nil, nil, nil, nil, nil, mockUC, nil)

	reqBody := LogoutRequest{RefreshToken: "refresh-token"}
	c, w := testutil.NewTestContext(http.MethodPost, "/auth/logout", reqBody)

	handler.Logout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockUC.called)
}

func TestAuthHandler_Logout_NoBody(t *testing.T) {
	mockUC := &mockLogoutUC{}
	handler := newTestAuthHandler(nil, nil, nil, nil, nil, mockUC, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/auth/logout", nil)

	handler.Logout(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

// =====================================================================
// TestAuthHandler_Me
// =====================================================================

func TestAuthHandler_Me_Success(t *testing.T) {
	acc := createTestAccount()
	mockUC := &mockGetAccountUC{account: acc}
	handler := newTestAuthHandler(nil, nil, nil, nil, nil, nil, mockUC)

	c, w := testutil.NewTestContext(http.MethodGet, "/me", nil)
	testutil.SetAuthContext(c, 1, "alice")

	handler.Me(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	err := testutil.ParseResponse(w, &resp)
	require.NoError(t, err)

	var data map[string]AccountResponse
	err = json.Unmarshal(resp.Data, &data)
	require.NoError(t, err)
	assert.Equal(t, "alice", data["account"].Username)
	assert.Equal(t, "alice@example.com", data["account"].Email)
}

func TestAuthHandler_Me_NotAuthenticated(t *testing.T) {
	handler := newTestAuthHandler(nil, nil, nil, nil, nil, nil, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/me", nil)

	handler.Me(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Me_AccountGone(t *testing.T) {
	mockUC := &mockGetAccountUC{err: apperrors.NewNotFoundError("account not found")}
	handler := newTestAuthHandler(nil, nil, nil, nil, nil, nil, mockUC)

	c, w := testutil.NewTestContext(http.MethodGet, "/me", nil)
	testutil.SetAuthContext(c, 42, "ghost")

	handler.Me(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
