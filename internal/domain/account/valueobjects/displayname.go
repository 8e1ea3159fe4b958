package valueobjects

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayName represents an account's human-readable name
type DisplayName struct {
	value string
}

// NewDisplayName creates a new DisplayName value object with validation.
// An empty value is allowed; callers fall back to the username.
func NewDisplayName(value string) (*DisplayName, error) {
	normalized := strings.Join(strings.Fields(value), " ")

	if len(normalized) > 100 {
		return nil, fmt.Errorf("display name cannot exceed 100 characters")
	}

	return &DisplayName{value: normalized}, nil
}

// String returns the string representation of the display name
func (d *DisplayName) String() string {
	return d.value
}

// IsEmpty reports whether no display name was provided
func (d *DisplayName) IsEmpty() bool {
	return d.value == ""
}

// Title returns the display name with each word capitalized
func (d *DisplayName) Title() string {
	caser := cases.Title(language.English)
	parts := strings.Fields(d.value)
	for i, part := range parts {
		parts[i] = caser.String(strings.ToLower(part))
	}
	return strings.Join(parts, " ")
}
