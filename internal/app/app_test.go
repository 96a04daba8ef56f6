package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/inclusive/internal/mockapi"
	"github.com/aussiebroadwan/inclusive/internal/session"
	"github.com/aussiebroadwan/inclusive/pkg/a11ysdk"
	"github.com/aussiebroadwan/inclusive/pkg/cryptox"
	"github.com/aussiebroadwan/inclusive/pkg/prefs"
	"github.com/aussiebroadwan/inclusive/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func startMockAPI(t *testing.T) string {
	t.Helper()

	hasher := cryptox.NewHasher("").WithParams(cryptox.Params{
		Memory: 64, Iterations: 1, Parallelism: 1, KeyLength: 32, SaltLength: 16,
	})
	srv, err := mockapi.NewServer(mockapi.Config{
		Issuer:    "a11y-api",
		JWTSecret: "0123456789abcdef0123456789abcdef",
		TokenTTL:  time.Hour,
	}, slogx.Discard(), mockapi.WithHasher(hasher))
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	c := a11ysdk.NewSDKClient(ts.URL + "/api")
	_, err = c.Register(context.Background(), a11ysdk.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	return ts.URL + "/api"
}

func testConfig(apiURL, stateFile string) Config {
	return Config{
		APIURL:           apiURL,
		StateFile:        stateFile,
		HTTPTimeout:      5 * time.Second,
		CheckTokenExpiry: true,
		SyncSettings:     true,
		Env:              "test",
		LogLevel:         "error",
		LogOutput:        io.Discard,
	}
}

func newApp(t *testing.T, cfg Config) *Application {
	t.Helper()
	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestStartFresh(t *testing.T) {
	a := newApp(t, testConfig("http://127.0.0.1:1/api", MemoryState))

	require.Equal(t, session.Unauthenticated, a.Start(context.Background()))
	require.Equal(t, prefs.Defaults(), a.Prefs().Get())
}

func TestRestartRestoresSessionAndPreferences(t *testing.T) {
	apiURL := startMockAPI(t)
	cfg := testConfig(apiURL, filepath.Join(t.TempDir(), "nested", "state.db"))
	ctx := context.Background()

	first, err := New(cfg)
	require.NoError(t, err)
	first.Start(ctx)

	_, err = first.Session().Login(ctx, a11ysdk.Credentials{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	result, err := first.ChangeSetting(ctx, "largeText", true)
	require.NoError(t, err)
	require.Equal(t, Synced, result)
	require.NoError(t, first.Close())

	second := newApp(t, cfg)
	require.Equal(t, session.Authenticated, second.Start(ctx))
	require.True(t, second.Prefs().Get().LargeText)
	require.True(t, second.Session().CurrentUser().AccessibilityNeeds.LargeText, "server copy was synced")
}

func TestChangeSettingOffline(t *testing.T) {
	a := newApp(t, testConfig("http://127.0.0.1:1/api", MemoryState))
	ctx := context.Background()
	a.Start(ctx)

	result, err := a.ChangeSetting(ctx, "fontSize", 18)
	require.NoError(t, err)
	require.Equal(t, SyncSkipped, result)
	require.Equal(t, 18, a.Prefs().Get().FontSize)

	_, err = a.ChangeSetting(ctx, "unknownOption", true)
	var unknown *prefs.UnknownSettingError
	require.ErrorAs(t, err, &unknown)
}

func TestSyncFailureIsNonFatal(t *testing.T) {
	apiURL := startMockAPI(t)
	a := newApp(t, testConfig(apiURL, MemoryState))
	ctx := context.Background()
	a.Start(ctx)

	_, err := a.Session().Login(ctx, a11ysdk.Credentials{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	// Point the client somewhere that refuses connections.
	a.Client().BaseURL = "http://127.0.0.1:1/api"

	result, err := a.ResetSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, SyncFailed, result)
	require.Equal(t, prefs.Defaults(), a.Prefs().Get())
}

func TestPullSettings(t *testing.T) {
	apiURL := startMockAPI(t)
	a := newApp(t, testConfig(apiURL, MemoryState))
	ctx := context.Background()
	a.Start(ctx)

	require.ErrorIs(t, a.PullSettings(ctx), a11ysdk.ErrUnauthenticated)

	token := login(t, a)
	_, err := a.Client().UpdateSettings(ctx, token, map[string]any{"voiceType": "female", "volume": 80})
	require.NoError(t, err)

	// Hydrating again resolves the user with the server-side settings.
	require.Equal(t, session.Authenticated, a.Session().Hydrate(ctx))
	require.NoError(t, a.PullSettings(ctx))
	require.Equal(t, "female", a.Prefs().Get().VoiceType)
	require.Equal(t, 80, a.Prefs().Get().Volume)
}

func TestPullSettingsWithoutServerNeeds(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"T","user":{"id":1,"username":"alice","role":"normal_user"}}`)
	}))
	t.Cleanup(ts.Close)

	a := newApp(t, testConfig(ts.URL, MemoryState))
	ctx := context.Background()
	a.Start(ctx)

	_, err := a.ChangeSetting(ctx, "fontSize", 20)
	require.NoError(t, err)

	_, err = a.Session().Login(ctx, a11ysdk.Credentials{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, a.PullSettings(ctx))
	require.Equal(t, prefs.Defaults(), a.Prefs().Get())
	require.NoError(t, a.Prefs().Get().Validate())
}

func TestStartTwiceKeepsOneObserver(t *testing.T) {
	var logs bytes.Buffer
	cfg := testConfig("http://127.0.0.1:1/api", MemoryState)
	cfg.LogLevel = "debug"
	cfg.LogOutput = &logs

	a := newApp(t, cfg)
	ctx := context.Background()
	a.Start(ctx)
	a.Start(ctx)
	logs.Reset()

	_, err := a.ChangeSetting(ctx, "largeText", true)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(logs.String(), "presentation updated"))
}

func TestPushSettingsRequiresLogin(t *testing.T) {
	a := newApp(t, testConfig("http://127.0.0.1:1/api", MemoryState))
	a.Start(context.Background())

	require.ErrorIs(t, a.PushSettings(context.Background()), a11ysdk.ErrUnauthenticated)
}

func TestSyncDisabled(t *testing.T) {
	apiURL := startMockAPI(t)
	cfg := testConfig(apiURL, MemoryState)
	cfg.SyncSettings = false
	a := newApp(t, cfg)
	ctx := context.Background()
	a.Start(ctx)
	login(t, a)

	result, err := a.ChangeSetting(ctx, "captions", false)
	require.NoError(t, err)
	require.Equal(t, SyncSkipped, result)
}

func login(t *testing.T, a *Application) string {
	t.Helper()
	_, err := a.Session().Login(context.Background(), a11ysdk.Credentials{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	return a.Session().Token()
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("A11Y_API_URL", "http://api.example.com/api")
	t.Setenv("A11Y_STATE_FILE", MemoryState)
	t.Setenv("A11Y_HTTP_TIMEOUT", "3")
	t.Setenv("A11Y_CHECK_TOKEN_EXPIRY", "false")
	t.Setenv("A11Y_SYNC_SETTINGS", "not-a-bool")

	cfg := LoadConfig()
	require.Equal(t, "http://api.example.com/api", cfg.APIURL)
	require.Equal(t, MemoryState, cfg.StateFile)
	require.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	require.False(t, cfg.CheckTokenExpiry)
	require.True(t, cfg.SyncSettings, "unparseable values keep the default")
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"A11Y_API_URL", "A11Y_STATE_FILE", "A11Y_HTTP_TIMEOUT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	require.Equal(t, a11ysdk.DefaultBaseURL, cfg.APIURL)
	require.Equal(t, a11ysdk.DefaultTimeout, cfg.HTTPTimeout)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Contains(t, cfg.StateFile, "state.db")
	require.NotNil(t, cfg.LogOutput)
}
