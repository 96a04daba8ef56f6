package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// cheap keeps the suite fast; verification reads params from the hash.
var cheap = Params{Memory: 64, Iterations: 1, Parallelism: 1, KeyLength: 32, SaltLength: 16}

func TestHasherRoundTrip(t *testing.T) {
	h := NewHasher("pepper").WithParams(cheap)

	for _, password := range []string{"secret1", "P@ssw0rd!#$%^&*()", strings.Repeat("a", 100), "", "   spaces   "} {
		t.Run(password, func(t *testing.T) {
			encoded, err := h.Hash(password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=64,t=1,p=1$"))

			require.NoError(t, h.Verify(password, encoded))
			require.ErrorIs(t, h.Verify(password+"x", encoded), ErrMismatch)
		})
	}
}

func TestHasherUniqueSalts(t *testing.T) {
	h := NewHasher("").WithParams(cheap)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestHasherPepperMatters(t *testing.T) {
	encoded, err := NewHasher("one").WithParams(cheap).Hash("secret1")
	require.NoError(t, err)

	require.ErrorIs(t, NewHasher("two").Verify("secret1", encoded), ErrMismatch)
}

func TestVerifyInvalidHash(t *testing.T) {
	h := NewHasher("")
	tests := map[string]string{
		"empty":         "",
		"too few parts": "$argon2id$v=19$m=64,t=1,p=1$salt",
		"wrong algo":    "$argon2i$v=19$m=64,t=1,p=1$c2FsdA$aGFzaA",
		"wrong version": "$argon2id$v=16$m=64,t=1,p=1$c2FsdA$aGFzaA",
		"bad params":    "$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA",
		"bad salt":      "$argon2id$v=19$m=64,t=1,p=1$!!!$aGFzaA",
		"empty hash":    "$argon2id$v=19$m=64,t=1,p=1$c2FsdA$",
	}

	for name, encoded := range tests {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, h.Verify("secret1", encoded), ErrInvalidHash)
		})
	}
}

func TestLoadOrCreatePepper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pepper")

	first, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Len(t, first, 43)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Equal(t, first, again)
}

func TestLoadOrCreatePepperEphemeral(t *testing.T) {
	a, err := LoadOrCreatePepper("")
	require.NoError(t, err)
	b, err := LoadOrCreatePepper("")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestLoadOrCreatePepperEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pepper")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0o600))

	_, err := LoadOrCreatePepper(path)
	require.Error(t, err)
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken(TokenSize128)
	require.NoError(t, err)
	require.Len(t, a, 22)

	b, err := GenerateToken(TokenSize128)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	_, err = GenerateToken(0)
	require.Error(t, err)
}
