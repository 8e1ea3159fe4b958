package valueobjects

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUsername(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
		expected  string
	}{
		{
			name:     "valid username",
			input:    "alice",
			expected: "alice",
		},
		{
			name:     "valid with digits and underscore",
			input:    "player_42",
			expected: "player_42",
		},
		{
			name:     "surrounding whitespace is trimmed",
			input:    "  alice  ",
			expected: "alice",
		},
		{
			name:      "empty",
			input:     "",
			wantError: true,
		},
		{
			name:      "too short",
			input:     "ab",
			wantError: true,
		},
		{
			name:      "too long",
			input:     strings.Repeat("a", 31),
			wantError: true,
		},
		{
			name:      "spaces inside",
			input:     "alice smith",
			wantError: true,
		},
		{
			name:      "special characters",
			input:     "alice!",
			wantError: true,
		},
		{
			name:      "non-ascii letters",
			input:     "百词斩同学",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			username, err := NewUsername(tt.input)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, username.String())
		})
	}
}

func TestUsername_EqualsIsCaseInsensitive(t *testing.T) {
	a, err := NewUsername("Alice")
	require.NoError(t, err)
	b, err := NewUsername("alice")
	require.NoError(t, err)
	c, err := NewUsername("bob")
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.False(t, a.Equals(nil))
}

func TestNewEmail(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
		expected  string
	}{
		{
			name:     "valid email",
			input:    "alice@example.com",
			expected: "alice@example.com",
		},
		{
			name:     "normalized to lowercase",
			input:    "Alice@Example.COM",
			expected: "alice@example.com",
		},
		{
			name:     "plus addressing",
			input:    "alice+games@example.com",
			expected: "alice+games@example.com",
		},
		{
			name:      "empty",
			input:     "",
			wantError: true,
		},
		{
			name:      "missing at sign",
			input:     "alice.example.com",
			wantError: true,
		},
		{
			name:      "missing domain",
			input:     "alice@",
			wantError: true,
		},
		{
			name:      "missing tld",
			input:     "alice@example",
			wantError: true,
		},
		{
			name:      "too long",
			input:     strings.Repeat("a", 250) + "@example.com",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := NewEmail(tt.input)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, email.String())
		})
	}
}

func TestEmail_LocalPart(t *testing.T) {
	email, err := NewEmail("alice.smith@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice.smith", email.LocalPart())
}

func TestNewPassword(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
	}{
		{name: "valid password", input: "secret1"},
		{name: "minimum length", input: "abcdef"},
		{name: "maximum length", input: strings.Repeat("x", 72)},
		{name: "empty", input: "", wantError: true},
		{name: "too short", input: "abcde", wantError: true},
		{name: "beyond bcrypt limit", input: strings.Repeat("x", 73), wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			password, err := NewPassword(tt.input)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, password.Value())
		})
	}
}

func TestPassword_StringMasksValue(t *testing.T) {
	password, err := NewPassword("super-secret")
	require.NoError(t, err)

	assert.NotContains(t, password.String(), "super-secret")
}

func TestNewDisplayName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
		expected  string
	}{
		{name: "valid name", input: "Alice Example", expected: "Alice Example"},
		{name: "inner whitespace collapsed", input: "  Alice   Example  ", expected: "Alice Example"},
		{name: "empty is allowed", input: "", expected: ""},
		{name: "too long", input: strings.Repeat("a", 101), wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			displayName, err := NewDisplayName(tt.input)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, displayName.String())
			assert.Equal(t, tt.expected == "", displayName.IsEmpty())
		})
	}
}

func TestDisplayName_Title(t *testing.T) {
	displayName, err := NewDisplayName("alice van der berg")
	require.NoError(t, err)

	assert.Equal(t, "Alice Van Der Berg", displayName.Title())
}
