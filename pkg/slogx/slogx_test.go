package slogx_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/inclusive/pkg/idx"
	"github.com/aussiebroadwan/inclusive/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSON(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Service: "a11y", Version: "v0", Env: "test", Level: "warn", Writer: &buf})

	logger.Info("dropped")
	logger.Warn("kept", "key", "value")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "kept", line["msg"])
	require.Equal(t, "a11y", line["service"])
	require.Equal(t, "value", line["key"])
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, slogx.ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, slogx.ParseLevel("warning"))
	require.Equal(t, slog.LevelError, slogx.ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, slogx.ParseLevel("nonsense"))
}

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	var fromCtx *slog.Logger
	h := slogx.HTTPMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = slogx.FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("generates a request id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

		require.Equal(t, http.StatusTeapot, rec.Code)
		_, err := idx.Parse(rec.Header().Get("X-Request-ID"))
		require.NoError(t, err)
		require.NotSame(t, base, fromCtx)
		require.Contains(t, buf.String(), `"status":418`)
	})

	t.Run("keeps a valid caller id", func(t *testing.T) {
		id := idx.New().String()
		req := httptest.NewRequest(http.MethodGet, "/livez", nil)
		req.Header.Set("X-Request-ID", id)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, id, rec.Header().Get("X-Request-ID"))
	})
}
