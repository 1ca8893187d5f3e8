package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginHints(t *testing.T) {
	tests := []struct {
		msg  string
		want []fieldHint
	}{
		{"user not found", []fieldHint{{"email", "Invalid email address"}}},
		{"Invalid email format", []fieldHint{{"email", "Invalid email address"}}},
		{"Missing password", []fieldHint{{"password", "Invalid password"}}},
		{"Wrong password", []fieldHint{{"password", "Invalid password"}}},
		{"Login failed", []fieldHint{{"email", "Invalid credentials"}, {"password", "Invalid credentials"}}},
		{"", []fieldHint{{"email", "Invalid credentials"}, {"password", "Invalid credentials"}}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, loginHints(tt.msg), "message %q", tt.msg)
	}
}

func TestValidateCredentials(t *testing.T) {
	assert.Empty(t, validateCredentials("eve.holt@reqres.in", "cityslicka"))

	assert.Equal(t, []fieldHint{
		{"email", "Email is required"},
		{"password", "Password is required"},
	}, validateCredentials("", ""))

	assert.Equal(t, []fieldHint{
		{"email", "Please enter a valid email address"},
		{"password", "Password must be at least 6 characters"},
	}, validateCredentials("eve", "12345"))
}
