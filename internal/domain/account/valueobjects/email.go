package valueobjects

import (
	"fmt"
	"regexp"
	"strings"
)

// emailRegex is the regular expression for validating email addresses
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email represents an email address value object
type Email struct {
	value string
}

// NewEmail creates a new Email value object with validation
func NewEmail(value string) (*Email, error) {
	// Normalize the email address
	normalized := strings.TrimSpace(strings.ToLower(value))

	if normalized == "" {
		return nil, fmt.Errorf("email cannot be empty")
	}

	if len(normalized) > 255 {
		return nil, fmt.Errorf("email cannot exceed 255 characters")
	}

	if !emailRegex.MatchString(normalized) {
		return nil, fmt.Errorf("invalid email format: %s", value)
	}

	return &Email{value: normalized}, nil
}

// String returns the string representation of the email
func (e *Email) String() string {
	return e.value
}

// Equals checks if two email objects are equal
func (e *Email) Equals(other *Email) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.value == other.value
}

// LocalPart returns the part of the email before the @
func (e *Email) LocalPart() string {
	parts := strings.Split(e.value, "@")
	return parts[0]
}
