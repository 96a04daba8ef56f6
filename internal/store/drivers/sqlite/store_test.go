package sqlite_test

import (
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/inclusive/internal/store"
	"github.com/aussiebroadwan/inclusive/internal/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*sqlite.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestStoreKV(t *testing.T) {
	ctx := t.Context()
	s, _ := openTemp(t)

	_, err := s.Get(ctx, store.KeyAccessToken)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Set(ctx, store.KeyAccessToken, []byte("old")))
	require.NoError(t, s.Set(ctx, store.KeyAccessToken, []byte("new")))

	v, err := s.Get(ctx, store.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)

	require.NoError(t, s.Delete(ctx, store.KeyAccessToken))
	require.NoError(t, s.Delete(ctx, store.KeyAccessToken))

	_, err = s.Get(ctx, store.KeyAccessToken)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestStoreSurvivesReopen(t *testing.T) {
	ctx := t.Context()
	s, path := openTemp(t)

	require.NoError(t, s.Set(ctx, store.KeySettings, []byte(`{"largeText":true}`)))
	require.NoError(t, s.Close())

	reopened, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	v, err := reopened.Get(ctx, store.KeySettings)
	require.NoError(t, err)
	require.JSONEq(t, `{"largeText":true}`, string(v))
}

func TestApplyMigrationsIdempotent(t *testing.T) {
	s, _ := openTemp(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(t.Context()))
}

func TestInMemory(t *testing.T) {
	ctx := t.Context()
	s, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)
}
