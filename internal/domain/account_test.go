package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	t.Parallel()

	t.Run("starts pending activation with role user", func(t *testing.T) {
		t.Parallel()
		account, err := NewAccount("alice", "alice@example.com")
		require.NoError(t, err)

		assert.Equal(t, "alice", account.Username)
		assert.Equal(t, RoleUser, account.Role)
		assert.False(t, account.IsActive)
		assert.NotEqual(t, "", account.ID.String())
		assert.False(t, account.CreatedAt.IsZero())
	})

	tests := []struct {
		name     string
		username string
		email    string
		wantErr  error
	}{
		{name: "empty username", username: "", email: "a@example.com", wantErr: ErrEmptyUsername},
		{name: "username too long", username: strings.Repeat("x", 65), email: "a@example.com", wantErr: ErrUsernameTooLong},
		{name: "empty email", username: "alice", email: "", wantErr: ErrEmptyEmail},
		{name: "email without at", username: "alice", email: "example.com", wantErr: ErrInvalidEmail},
		{name: "email without domain dot", username: "alice", email: "alice@example", wantErr: ErrInvalidEmail},
		{name: "email ending in at", username: "alice", email: "alice@", wantErr: ErrInvalidEmail},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewAccount(tc.username, tc.email)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "valid", password: "password123"},
		{name: "exactly 8 chars", password: "12345678"},
		{name: "exactly 72 chars", password: strings.Repeat("x", 72)},
		{name: "empty", password: "", wantErr: ErrEmptyPassword},
		{name: "too short", password: "1234567", wantErr: ErrPasswordTooShort},
		{name: "too long", password: strings.Repeat("x", 73), wantErr: ErrPasswordTooLong},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePassword(tc.password)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAccountValidateRole(t *testing.T) {
	t.Parallel()

	account, err := NewAccount("alice", "alice@example.com")
	require.NoError(t, err)

	for _, role := range []string{RoleUser, RoleExecuter, RoleAdmin} {
		account.Role = role
		assert.NoError(t, account.Validate(), role)
	}

	account.Role = "superuser"
	assert.ErrorIs(t, account.Validate(), ErrInvalidRole)
}
