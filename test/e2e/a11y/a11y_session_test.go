//go:build e2e

package a11y_test

import (
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/inclusive/internal/session"
	"github.com/aussiebroadwan/inclusive/pkg/a11ysdk"
	"github.com/aussiebroadwan/inclusive/pkg/prefs"
	"github.com/stretchr/testify/require"
)

func TestLivezEndpoint(t *testing.T) {
	client := a11ysdk.NewSDKClient(setupAPIContainer(t, nil))

	health, err := client.GetLiveness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
}

// TestSessionSurvivesRestart logs in, then builds a second session over the
// same state file the way a restarted CLI would.
func TestSessionSurvivesRestart(t *testing.T) {
	client := a11ysdk.NewSDKClient(setupAPIContainer(t, nil))
	statePath := filepath.Join(t.TempDir(), "state.db")
	registerUser(t, client, "alice")

	first, db := newSession(t, client, statePath)
	user, err := first.Login(t.Context(), a11ysdk.Credentials{Username: "alice", Password: testPassword})
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.NoError(t, db.Close())

	second, _ := newSession(t, client, statePath)
	require.Equal(t, session.Authenticated, second.Hydrate(t.Context()))
	require.Equal(t, "alice", second.CurrentUser().Username)

	second.Logout(t.Context())
	require.False(t, second.IsAuthenticated())
}

func TestLoginInvalidCredentials(t *testing.T) {
	client := a11ysdk.NewSDKClient(setupAPIContainer(t, nil))
	registerUser(t, client, "alice")

	s, _ := newSession(t, client, filepath.Join(t.TempDir(), "state.db"))
	_, err := s.Login(t.Context(), a11ysdk.Credentials{Username: "alice", Password: "wrong"})
	require.ErrorIs(t, err, a11ysdk.ErrLoginFailed)
	require.EqualError(t, err, "Invalid credentials")
	require.False(t, s.IsAuthenticated())
}

// A second server signs with a different secret, so the stored token fails
// verification and hydrate must drop it.
func TestTokenRejectedByOtherServer(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.db")

	first := a11ysdk.NewSDKClient(setupAPIContainer(t, map[string]string{"MOCKAPI_JWT_SECRET": "first-secret-0123456789abcdef0123456789"}))
	registerUser(t, first, "alice")
	s, db := newSession(t, first, statePath)
	_, err := s.Login(t.Context(), a11ysdk.Credentials{Username: "alice", Password: testPassword})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	second := a11ysdk.NewSDKClient(setupAPIContainer(t, nil))
	restored, _ := newSession(t, second, statePath)
	require.Equal(t, session.Unauthenticated, restored.Hydrate(t.Context()))
	require.Empty(t, restored.Token())
}

func TestSettingsSync(t *testing.T) {
	client := a11ysdk.NewSDKClient(setupAPIContainer(t, nil))
	registerUser(t, client, "alice")

	s, _ := newSession(t, client, filepath.Join(t.TempDir(), "state.db"))
	_, err := s.Login(t.Context(), a11ysdk.Credentials{Username: "alice", Password: testPassword})
	require.NoError(t, err)

	p, err := prefs.Defaults().With("readingSpeed", 220)
	require.NoError(t, err)
	require.NoError(t, s.SyncSettings(t.Context(), p))

	user, err := client.FetchCurrentUser(t.Context(), s.Token())
	require.NoError(t, err)
	require.Equal(t, 220, user.AccessibilityNeeds.ReadingSpeed)
}

func TestLoginRateLimit(t *testing.T) {
	client := a11ysdk.NewSDKClient(setupAPIContainer(t, map[string]string{
		"RATELIMIT_STRICT_REQUESTS": "2",
		"RATELIMIT_STRICT_BURST":    "2",
	}))

	var apiErr *a11ysdk.APIError
	for range 3 {
		_, err := client.Login(t.Context(), a11ysdk.Credentials{Username: "mallory", Password: "guess"})
		require.ErrorAs(t, err, &apiErr)
	}
	require.Equal(t, 429, apiErr.StatusCode)
}
