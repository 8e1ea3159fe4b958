package valueobjects

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	usernameMinLength = 3
	usernameMaxLength = 30
)

// usernameRegex limits usernames to alphanumerics and underscores
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Username represents an account's unique handle
type Username struct {
	value string
}

// NewUsername creates a new Username value object with validation
func NewUsername(value string) (*Username, error) {
	normalized := strings.TrimSpace(value)

	if normalized == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}
	if len(normalized) < usernameMinLength {
		return nil, fmt.Errorf("username must be at least %d characters long", usernameMinLength)
	}
	if len(normalized) > usernameMaxLength {
		return nil, fmt.Errorf("username cannot exceed %d characters", usernameMaxLength)
	}
	if !usernameRegex.MatchString(normalized) {
		return nil, fmt.Errorf("username may only contain letters, digits, and underscores")
	}

	return &Username{value: normalized}, nil
}

// String returns the string representation of the username
func (u *Username) String() string {
	return u.value
}

// Equals checks if two usernames are equal (case-insensitive)
func (u *Username) Equals(other *Username) bool {
	if u == nil || other == nil {
		return u == other
	}
	return strings.EqualFold(u.value, other.value)
}
