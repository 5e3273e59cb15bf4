package password_test

import (
	"strings"
	"testing"

	"umrahcrm/shared/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	seen := make(map[string]struct{})

	for range 20 {
		pw, err := password.Generate()
		require.NoError(t, err)

		assert.Len(t, pw, password.GeneratedLength)
		assert.NotContainsf(t, pw, "0", "ambiguous characters are excluded")
		assert.NotContainsf(t, pw, "O", "ambiguous characters are excluded")
		assert.NotContainsf(t, pw, "l", "ambiguous characters are excluded")

		seen[pw] = struct{}{}
	}

	assert.Greater(t, len(seen), 1)
}

func TestHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "generated password", password: "Ab3dEf7h"},
		{name: "unicode", password: "سفر-مبارك"},
		{name: "empty", password: "", wantErr: true},
		{name: "longer than bcrypt accepts", password: strings.Repeat("a", 73), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := password.Hash(tt.password)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, hash)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)
			assert.True(t, strings.HasPrefix(hash, "$2a$"))
		})
	}
}

func TestHash_Salted(t *testing.T) {
	first, err := password.Hash("same-secret")
	require.NoError(t, err)

	second, err := password.Hash("same-secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NoError(t, password.Verify("same-secret", first))
	assert.NoError(t, password.Verify("same-secret", second))
}

func TestVerify(t *testing.T) {
	hash, err := password.Hash("correct-horse")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		wantErr  error
	}{
		{name: "match", password: "correct-horse", hash: hash},
		{name: "mismatch", password: "wrong-horse", hash: hash, wantErr: password.ErrInvalidPassword},
		{name: "empty password", password: "", hash: hash, wantErr: password.ErrInvalidPassword},
		{name: "empty hash", password: "correct-horse", hash: "", wantErr: password.ErrInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.Verify(tt.password, tt.hash)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
		})
	}

	t.Run("malformed hash", func(t *testing.T) {
		err := password.Verify("correct-horse", "not-a-bcrypt-hash")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, password.ErrInvalidPassword)
	})
}
