package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lexid/internal/shared/biztime"
	apperrors "lexid/internal/shared/errors"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the strict token payload. Tokens missing any of the account
// fields or the token type are rejected; no alternate field names are
// consulted.
type Claims struct {
	AccountID uint      `json:"account_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	SessionID string    `json:"session_id"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// JWTService issues and verifies signed access/refresh token pairs.
type JWTService struct {
	secret           []byte
	issuer           string
	audience         string
	accessExpMinutes int
	refreshExpDays   int
}

func NewJWTService(secret, issuer, audience string, accessExpMinutes, refreshExpDays int) *JWTService {
	return &JWTService{
		secret:           []byte(secret),
		issuer:           issuer,
		audience:         audience,
		accessExpMinutes: accessExpMinutes,
		refreshExpDays:   refreshExpDays,
	}
}

// Generate mints an access/refresh pair for the account bound to a
// session. The session id salts the claims, so two pairs minted for the
// same account in the same second are still distinct strings; without it
// concurrent logins would collide on the session table's unique
// refresh-token-hash index. The two tokens share the signing secret but
// carry distinct token_type claims and expirations; verification always
// checks the type explicitly.
func (s *JWTService) Generate(accountID uint, username, email, sessionID string) (*TokenPair, error) {
	now := biztime.NowUTC()

	accessExp := now.Add(time.Duration(s.accessExpMinutes) * time.Minute)
	accessTokenString, err := s.sign(accountID, username, email, sessionID, TokenTypeAccess, now, accessExp)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshExp := now.Add(time.Duration(s.refreshExpDays) * 24 * time.Hour)
	refreshTokenString, err := s.sign(accountID, username, email, sessionID, TokenTypeRefresh, now, refreshExp)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
		ExpiresIn:    int64(s.accessExpMinutes * 60),
	}, nil
}

func (s *JWTService) sign(accountID uint, username, email, sessionID string, tokenType TokenType, now, exp time.Time) (string, error) {
	claims := &Claims{
		AccountID: accountID,
		Username:  username,
		Email:     email,
		SessionID: sessionID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature, expiry, issuer/audience, and token type.
// Expired-signature and bad-signature surface as distinct error kinds so
// callers can give different UX (silent refresh vs forced logout).
func (s *JWTService) Verify(tokenString string, expectedType TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.NewTokenExpiredError(string(expectedType) + " token")
		}
		return nil, apperrors.NewTokenInvalidError(string(expectedType) + " token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.NewTokenInvalidError(string(expectedType) + " token")
	}

	if claims.AccountID == 0 || claims.Username == "" || claims.Email == "" || claims.TokenType == "" {
		return nil, apperrors.NewTokenInvalidError(string(expectedType) + " token")
	}

	// Kind is checked explicitly, never inferred from expiry: an access
	// token is never accepted where a refresh token is required.
	if claims.TokenType != expectedType {
		return nil, apperrors.NewTokenInvalidError(string(expectedType) + " token")
	}

	return claims, nil
}
