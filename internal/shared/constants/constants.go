package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderUserAgent     = "User-Agent"

	// Context keys
	ContextKeyAccountID = "account_id"
	ContextKeyUsername  = "username"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableAccounts    = "accounts"
	TableSessions    = "sessions"
	TableOAuthStates = "oauth_states"
)
