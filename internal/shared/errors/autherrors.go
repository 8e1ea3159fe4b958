package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Authentication-specific error types
const (
	ErrorTypeInvalidCredentials ErrorType = "invalid_credentials"
	ErrorTypeTokenExpired       ErrorType = "token_expired"
	ErrorTypeTokenInvalid       ErrorType = "token_invalid"
	ErrorTypeSessionExpired     ErrorType = "session_expired"
	ErrorTypePasswordNotSet     ErrorType = "password_not_set"
	ErrorTypeOAuthError         ErrorType = "oauth_error"
)

// AuthError represents authentication-specific errors with security context
type AuthError struct {
	*AppError
	// ShouldLog determines if this error should be logged. Expected
	// failures (wrong password) don't need error-level logging.
	ShouldLog bool
	// SecurityEvent indicates if this should be tracked as a security event
	SecurityEvent bool
}

// Error implements the error interface
func (e *AuthError) Error() string {
	return e.AppError.Error()
}

// Unwrap allows errors.Is and errors.As to work correctly
func (e *AuthError) Unwrap() error {
	return e.AppError
}

// NewInvalidCredentialsError creates an error for invalid login credentials.
// The message covers unknown username, wrong password, and deactivated
// accounts alike so callers cannot enumerate accounts.
func NewInvalidCredentialsError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeInvalidCredentials,
			Message: "Invalid credentials or account deactivated",
			Code:    http.StatusUnauthorized,
		},
		ShouldLog:     false,
		SecurityEvent: true,
	}
}

// NewTokenExpiredError creates an error for expired tokens
func NewTokenExpiredError(tokenType string) *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeTokenExpired,
			Message: fmt.Sprintf("%s has expired", tokenType),
			Code:    http.StatusUnauthorized,
			Details: "Please login again",
		},
		ShouldLog:     false,
		SecurityEvent: false,
	}
}

// NewTokenInvalidError creates an error for malformed, forged, or
// wrong-kind tokens
func NewTokenInvalidError(tokenType string) *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeTokenInvalid,
			Message: fmt.Sprintf("Invalid %s", tokenType),
			Code:    http.StatusUnauthorized,
			Details: "Token is invalid or has been revoked",
		},
		ShouldLog:     true,
		SecurityEvent: true,
	}
}

// NewSessionExpiredError creates an error for expired or revoked sessions
func NewSessionExpiredError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeSessionExpired,
			Message: "Session has expired",
			Code:    http.StatusUnauthorized,
			Details: "Please login again",
		},
		ShouldLog:     false,
		SecurityEvent: false,
	}
}

// NewPasswordNotSetError creates an error when password login is not
// available. Returned for OAuth-only accounts; reveals nothing about
// password correctness since no password check occurred.
func NewPasswordNotSetError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypePasswordNotSet,
			Message: "This account uses OAuth login only",
			Code:    http.StatusBadRequest,
			Details: "Please sign in with your identity provider",
		},
		ShouldLog:     false,
		SecurityEvent: false,
	}
}

// NewOAuthError creates an error for OAuth-related failures. The provider's
// raw error body must never be passed in details.
func NewOAuthError(provider string, stage string, details ...string) *AuthError {
	detail := fmt.Sprintf("OAuth authentication failed at %s stage", stage)
	if len(details) > 0 {
		detail = details[0]
	}
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeOAuthError,
			Message: fmt.Sprintf("OAuth authentication failed with %s", provider),
			Code:    http.StatusBadGateway,
			Details: detail,
		},
		ShouldLog:     true,
		SecurityEvent: false,
	}
}

// IsAuthError checks if the error is an AuthError
func IsAuthError(err error) bool {
	var authErr *AuthError
	return stderrors.As(err, &authErr)
}

// GetAuthError extracts AuthError from the error chain
func GetAuthError(err error) *AuthError {
	var authErr *AuthError
	if stderrors.As(err, &authErr) {
		return authErr
	}
	return nil
}

// ShouldLogAuthError returns true if the authentication error should be logged
func ShouldLogAuthError(err error) bool {
	if authErr := GetAuthError(err); authErr != nil {
		return authErr.ShouldLog
	}
	return true
}
