package valueobjects

import "fmt"

const passwordMinLength = 6

// Password represents a plaintext password prior to hashing. It never
// crosses the orchestrator boundary; only its hash is persisted.
type Password struct {
	value string
}

// NewPassword creates a new Password value object with validation
func NewPassword(value string) (*Password, error) {
	if value == "" {
		return nil, fmt.Errorf("password cannot be empty")
	}
	if len(value) < passwordMinLength {
		return nil, fmt.Errorf("password must be at least %d characters long", passwordMinLength)
	}
	if len(value) > 72 {
		// bcrypt truncates input beyond 72 bytes
		return nil, fmt.Errorf("password cannot exceed 72 characters")
	}

	return &Password{value: value}, nil
}

// Value returns the plaintext password
func (p *Password) Value() string {
	return p.value
}

// String masks the password in logs and formatted output
func (p *Password) String() string {
	return "********"
}
