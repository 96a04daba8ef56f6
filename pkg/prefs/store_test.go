package prefs_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/aussiebroadwan/inclusive/pkg/prefs"
	"github.com/stretchr/testify/require"
)

type memBackend struct {
	mu      sync.Mutex
	data    []byte
	saves   int
	loadErr error
	saveErr error
}

func (b *memBackend) Load(context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	return b.data, nil
}

func (b *memBackend) Save(_ context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.saveErr != nil {
		return b.saveErr
	}
	b.data = append([]byte(nil), data...)
	b.saves++
	return nil
}

func (b *memBackend) persisted(t *testing.T) prefs.Preferences {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	var p prefs.Preferences
	require.NoError(t, json.Unmarshal(b.data, &p))
	return p
}

func TestStoreSet(t *testing.T) {
	ctx := t.Context()
	want := nonDefault().Map()

	for _, key := range prefs.Keys() {
		t.Run(key, func(t *testing.T) {
			backend := &memBackend{}
			s := prefs.NewStore(backend)
			before := s.Get()

			var notified []prefs.Preferences
			s.Subscribe(func(p prefs.Preferences) { notified = append(notified, p) })

			require.NoError(t, s.Set(ctx, key, want[key]))

			after := s.Get()
			require.Equal(t, []string{key}, after.Diff(before))
			require.Equal(t, after, backend.persisted(t))
			require.Equal(t, []prefs.Preferences{after}, notified)
		})
	}
}

func TestStoreSetUnknownKey(t *testing.T) {
	backend := &memBackend{}
	s := prefs.NewStore(backend)
	before := s.Get()

	called := false
	s.Subscribe(func(prefs.Preferences) { called = true })

	err := s.Set(t.Context(), "unknownOption", true)
	var unknown *prefs.UnknownSettingError
	require.ErrorAs(t, err, &unknown)

	require.Equal(t, before, s.Get())
	require.Zero(t, backend.saves)
	require.False(t, called)
}

func TestStoreSetPersistFailure(t *testing.T) {
	backend := &memBackend{saveErr: errors.New("disk full")}
	s := prefs.NewStore(backend)
	before := s.Get()

	called := false
	s.Subscribe(func(prefs.Preferences) { called = true })

	err := s.Set(t.Context(), "largeText", true)
	require.ErrorContains(t, err, "disk full")
	require.Equal(t, before, s.Get())
	require.False(t, called)
}

func TestStoreReplaceRejectsOutOfRange(t *testing.T) {
	backend := &memBackend{}
	s := prefs.NewStore(backend)
	require.NoError(t, s.Set(t.Context(), "largeText", true))
	before := s.Get()
	saves := backend.saves

	called := false
	s.Subscribe(func(prefs.Preferences) { called = true })

	var invalid *prefs.InvalidSettingValueError
	require.ErrorAs(t, s.Replace(t.Context(), prefs.Preferences{}), &invalid)
	require.Equal(t, before, s.Get())
	require.Equal(t, saves, backend.saves)
	require.False(t, called)
}

func TestStoreReset(t *testing.T) {
	ctx := t.Context()
	backend := &memBackend{}
	s := prefs.NewStore(backend)

	require.NoError(t, s.Replace(ctx, nonDefault()))
	require.Equal(t, nonDefault(), s.Get())

	var notified prefs.Preferences
	s.Subscribe(func(p prefs.Preferences) { notified = p })

	require.NoError(t, s.Reset(ctx))
	require.Equal(t, prefs.Defaults(), s.Get())
	require.Equal(t, prefs.Defaults(), backend.persisted(t))
	require.Equal(t, prefs.Defaults(), notified)
}

func TestStoreHydrate(t *testing.T) {
	ctx := t.Context()

	t.Run("nothing persisted", func(t *testing.T) {
		s := prefs.NewStore(&memBackend{})
		require.NoError(t, s.Hydrate(ctx))
		require.Equal(t, prefs.Defaults(), s.Get())
	})

	t.Run("partial object", func(t *testing.T) {
		s := prefs.NewStore(&memBackend{data: []byte(`{"largeText":true,"voiceType":"male"}`)})
		require.NoError(t, s.Hydrate(ctx))

		want := prefs.Defaults()
		want.LargeText = true
		want.VoiceType = prefs.VoiceMale
		require.Equal(t, want, s.Get())
	})

	t.Run("corrupt data", func(t *testing.T) {
		s := prefs.NewStore(&memBackend{data: []byte(`not json`)})
		require.NoError(t, s.Hydrate(ctx))
		require.Equal(t, prefs.Defaults(), s.Get())
	})

	t.Run("read failure", func(t *testing.T) {
		s := prefs.NewStore(&memBackend{loadErr: errors.New("locked")})
		require.ErrorContains(t, s.Hydrate(ctx), "locked")
		require.Equal(t, prefs.Defaults(), s.Get())
	})

	t.Run("notifies observers", func(t *testing.T) {
		s := prefs.NewStore(&memBackend{data: []byte(`{"highContrast":true}`)})
		var got prefs.Preferences
		s.Subscribe(func(p prefs.Preferences) { got = p })

		require.NoError(t, s.Hydrate(ctx))
		require.True(t, got.HighContrast)
	})
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := t.Context()
	backend := &memBackend{}

	first := prefs.NewStore(backend)
	for key, value := range nonDefault().Map() {
		require.NoError(t, first.Set(ctx, key, value))
	}
	require.Equal(t, nonDefault(), first.Get())

	second := prefs.NewStore(backend)
	require.NoError(t, second.Hydrate(ctx))
	require.Equal(t, first.Get(), second.Get())
}

func TestStoreUnsubscribe(t *testing.T) {
	ctx := t.Context()
	s := prefs.NewStore(&memBackend{})

	calls := 0
	unsubscribe := s.Subscribe(func(prefs.Preferences) { calls++ })

	require.NoError(t, s.Set(ctx, "captions", false))
	unsubscribe()
	unsubscribe()
	require.NoError(t, s.Set(ctx, "captions", true))

	require.Equal(t, 1, calls)
}

func TestStoreObserverMayRead(t *testing.T) {
	s := prefs.NewStore(&memBackend{})

	var seen prefs.Preferences
	s.Subscribe(func(prefs.Preferences) { seen = s.Get() })

	require.NoError(t, s.Set(t.Context(), "readLinks", true))
	require.True(t, seen.ReadLinks)
}
