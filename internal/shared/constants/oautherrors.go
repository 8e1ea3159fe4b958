package constants

// OAuthErrorCode represents OAuth callback failure reason codes.
type OAuthErrorCode string

const (
	// Provider-reported errors (from the callback query string)
	OAuthErrorAccessDenied OAuthErrorCode = "access_denied"
	OAuthErrorServerError  OAuthErrorCode = "server_error"

	// Internal errors
	OAuthErrorMissingCode    OAuthErrorCode = "missing_code"
	OAuthErrorMissingState   OAuthErrorCode = "missing_state"
	OAuthErrorInvalidState   OAuthErrorCode = "invalid_state"
	OAuthErrorExpiredState   OAuthErrorCode = "expired_state"
	OAuthErrorExchangeFailed OAuthErrorCode = "exchange_failed"
	OAuthErrorUserInfoFailed OAuthErrorCode = "user_info_failed"
)

// OAuthErrorMessages maps reason codes to user-facing messages. Provider
// error bodies are never included here.
var OAuthErrorMessages = map[OAuthErrorCode]string{
	OAuthErrorAccessDenied:   "You denied the authorization request. Please try again if you wish to continue.",
	OAuthErrorServerError:    "The identity provider encountered an error. Please try again later.",
	OAuthErrorMissingCode:    "Authorization code is missing. Please try logging in again.",
	OAuthErrorMissingState:   "Security validation failed. Please try logging in again.",
	OAuthErrorInvalidState:   "Invalid security token. This link may have expired.",
	OAuthErrorExpiredState:   "Login attempt expired. Please try again.",
	OAuthErrorExchangeFailed: "Failed to complete authentication. Please try again.",
	OAuthErrorUserInfoFailed: "Failed to retrieve your profile information. Please try again.",
}

// GetOAuthErrorMessage returns a user-friendly message for a reason code.
func GetOAuthErrorMessage(code OAuthErrorCode) string {
	if msg, ok := OAuthErrorMessages[code]; ok {
		return msg
	}
	return "An unexpected error occurred during authentication. Please try again."
}
