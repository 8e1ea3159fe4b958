package ratelimit

import "time"

// LimitConfig bounds how often a client may hit the credential endpoints.
// A zero limit disables that window.
type LimitConfig struct {
	RequestsPerMinute int
	RequestsPerHour   int
}

// RateLimiter throttles requests per caller key across sliding windows.
type RateLimiter interface {
	Allow(key string, config LimitConfig) (bool, error)
	GetRemaining(key string, window time.Duration) (int64, error)
	Reset(key string) error
}
