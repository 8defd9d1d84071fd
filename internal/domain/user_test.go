package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser("alice@example.com", "a long enough password")
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
	})

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"empty email", "", "a long enough password", ErrEmptyEmail},
		{"bad email", "not-an-email", "a long enough password", ErrInvalidEmail},
		{"short password", "alice@example.com", "short", ErrPasswordTooShort},
		{"long password", "alice@example.com", strings.Repeat("x", 73), ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tt.email, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUserValidateStoredForm(t *testing.T) {
	t.Parallel()

	// A user loaded from storage has only the hash; that is valid.
	user, err := NewUser("alice@example.com", "a long enough password")
	require.NoError(t, err)
	user.Password = ""
	user.HashedPassword = "$2a$10$somestoredhash"
	assert.NoError(t, user.Validate())

	// Neither plaintext nor hash is not.
	user.HashedPassword = ""
	assert.ErrorIs(t, user.Validate(), ErrEmptyPassword)
}
