package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/inclusive/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte(strings.Repeat("s", jwtx.MinSecretLength))

func TestNewHS256RejectsShortSecret(t *testing.T) {
	_, err := jwtx.NewHS256([]byte("short"), "a11y-api")
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)
}

func TestHS256SignAndVerify(t *testing.T) {
	h, err := jwtx.NewHS256(testSecret, "a11y-api")
	require.NoError(t, err)
	require.Equal(t, "HS256", h.Alg())

	now := time.Now().UTC()

	t.Run("round trip", func(t *testing.T) {
		token, err := h.Sign(jwtx.NewAccessClaims("1", "alice", "normal_user", "", time.Hour, now))
		require.NoError(t, err)

		claims, err := h.Verify(token)
		require.NoError(t, err)
		require.Equal(t, "1", claims.Subject)
		require.Equal(t, "alice", claims.Username)
		require.Equal(t, "a11y-api", claims.Issuer)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := h.Sign(jwtx.NewAccessClaims("1", "alice", "", "", time.Hour, now.Add(-2*time.Hour)))
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := jwtx.NewHS256([]byte(strings.Repeat("x", 40)), "a11y-api")
		require.NoError(t, err)

		token, err := other.Sign(jwtx.NewAccessClaims("1", "alice", "", "", time.Hour, now))
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := h.Sign(jwtx.NewAccessClaims("1", "alice", "", "someone-else", time.Hour, now))
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := h.Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}

func TestExpiresAt(t *testing.T) {
	h, err := jwtx.NewHS256(testSecret, "")
	require.NoError(t, err)

	now := time.Unix(1700000000, 0).UTC()
	token, err := h.Sign(jwtx.NewAccessClaims("1", "alice", "", "", time.Hour, now))
	require.NoError(t, err)

	exp, ok := jwtx.ExpiresAt(token)
	require.True(t, ok)
	require.True(t, now.Add(time.Hour).Equal(exp))

	_, ok = jwtx.ExpiresAt("opaque-token")
	require.False(t, ok)
}
