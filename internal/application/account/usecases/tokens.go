package usecases

import "context"

// TokenKind discriminates the two halves of a pair. Verification always
// names the kind it expects; a well-signed token of the wrong kind is
// rejected.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// TokenClaims is the verified identity carried inside a token
type TokenClaims struct {
	AccountID uint
	Username  string
	Email     string
}

type JWTService interface {
	// Generate mints a pair bound to one session; the session id keeps
	// pairs for the same account distinct even within one clock second.
	Generate(accountID uint, username, email, sessionID string) (*TokenPair, error)
	Verify(tokenString string, kind TokenKind) (*TokenClaims, error)
}

// OAuthUserInfo is the provider profile consumed by the callback flow
type OAuthUserInfo struct {
	ExternalID  string
	Username    string
	Email       string
	DisplayName string
	AvatarURL   string
}

// OAuthClient abstracts the identity provider round trips
type OAuthClient interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (accessToken string, err error)
	GetUserInfo(ctx context.Context, accessToken string) (*OAuthUserInfo, error)
}
