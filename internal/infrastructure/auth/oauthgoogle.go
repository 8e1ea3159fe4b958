package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	apperrors "lexid/internal/shared/errors"
)

const (
	// httpClientTimeout bounds every call to the identity provider; a
	// hung provider must not hold the caller's request indefinitely
	httpClientTimeout = 30 * time.Second

	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GoogleOAuthClient drives the authorization-code flow against Google.
// The redirect URL is fixed at construction, so the URL embedded in the
// authorization request and the one sent during code exchange always
// match exactly (the provider rejects the exchange otherwise).
type GoogleOAuthClient struct {
	config      *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// OAuthUserInfo is the provider profile consumed by the orchestrator
type OAuthUserInfo struct {
	ExternalID  string
	Username    string
	Email       string
	DisplayName string
	AvatarURL   string
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	Picture       string `json:"picture"`
}

func NewGoogleOAuthClient(cfg GoogleOAuthConfig) *GoogleOAuthClient {
	return &GoogleOAuthClient{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
		httpClient:  &http.Client{Timeout: httpClientTimeout},
	}
}

// AuthCodeURL builds the provider authorization URL embedding client id,
// redirect URI, scopes, and the given CSRF state token.
func (c *GoogleOAuthClient) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// ExchangeCode trades the one-time authorization code for a provider
// access token. Network failures, non-2xx responses, malformed bodies,
// and a missing access_token all surface as an oauth_error without the
// provider's response body.
func (c *GoogleOAuthClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return "", apperrors.NewOAuthError("google", "exchange")
	}
	if token.AccessToken == "" {
		return "", apperrors.NewOAuthError("google", "exchange")
	}
	return token.AccessToken, nil
}

// GetUserInfo fetches the provider's user-info endpoint. A missing
// external id or email is a hard failure.
func (c *GoogleOAuthClient) GetUserInfo(ctx context.Context, accessToken string) (*OAuthUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewOAuthError("google", "userinfo")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain without surfacing; provider error bodies stay internal
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, apperrors.NewOAuthError("google", "userinfo")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewOAuthError("google", "userinfo")
	}

	var gInfo googleUserInfo
	if err := json.Unmarshal(body, &gInfo); err != nil {
		return nil, apperrors.NewOAuthError("google", "userinfo")
	}

	if gInfo.ID == "" || gInfo.Email == "" {
		return nil, apperrors.NewOAuthError("google", "userinfo", "provider profile is missing required fields")
	}

	return &OAuthUserInfo{
		ExternalID:  gInfo.ID,
		Username:    gInfo.GivenName,
		Email:       gInfo.Email,
		DisplayName: gInfo.Name,
		AvatarURL:   gInfo.Picture,
	}, nil
}
