// Package app composes the client core: the state store, the SDK client,
// the session and the preferences. Front-ends build one Application per
// process and call Start before anything else.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aussiebroadwan/inclusive/internal/session"
	"github.com/aussiebroadwan/inclusive/internal/store"
	"github.com/aussiebroadwan/inclusive/internal/store/drivers/memory"
	"github.com/aussiebroadwan/inclusive/internal/store/drivers/sqlite"
	"github.com/aussiebroadwan/inclusive/pkg/a11ysdk"
	"github.com/aussiebroadwan/inclusive/pkg/prefs"
	"github.com/aussiebroadwan/inclusive/pkg/slogx"
)

const BuildVersion = "v0.1.0"

type Application struct {
	cfg    Config
	logger *slog.Logger

	db      store.Store
	client  *a11ysdk.SDKClient
	session *session.Store
	prefs   *prefs.Store

	unsubscribe func()
}

func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "a11y",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Writer:  cfg.LogOutput,
		}),
	}

	db, err := openStore(cfg.StateFile)
	if err != nil {
		return nil, err
	}
	app.db = db

	app.client = a11ysdk.NewSDKClientWithTimeout(cfg.APIURL, cfg.HTTPTimeout)
	app.session = session.New(app.client,
		store.NewSlot(db, store.KeyAccessToken),
		session.WithLogger(app.logger),
		session.WithTokenExpiryCheck(cfg.CheckTokenExpiry),
	)
	app.prefs = prefs.NewStore(
		store.NewSlot(db, store.KeySettings),
		prefs.WithLogger(app.logger),
	)
	app.unsubscribe = app.prefs.Subscribe(app.logPresentation)

	return app, nil
}

func openStore(path string) (store.Store, error) {
	if path == MemoryState {
		return memory.NewStore(), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return sqlite.Open(path)
}

// Start hydrates preferences and the session. Preferences always end up
// usable; a storage read failure is logged and defaults apply.
func (app *Application) Start(ctx context.Context) session.State {
	if err := app.prefs.Hydrate(ctx); err != nil {
		app.logger.Warn("failed to load preferences, using defaults", "err", err)
	}

	state := app.session.Hydrate(ctx)
	app.logger.Debug("session restored", "state", state)
	return state
}

func (app *Application) logPresentation(p prefs.Preferences) {
	pres := p.Presentation()
	app.logger.Debug("presentation updated",
		"high_contrast", pres.HighContrast,
		"font_size_px", pres.FontSizePx,
		"theme", pres.Theme,
		"reduced_motion", pres.ReducedMotion,
		"captions", pres.Captions,
	)
}

// SyncResult reports what happened to the server copy after a local
// settings change.
type SyncResult int

const (
	SyncSkipped SyncResult = iota // not logged in, or sync disabled
	Synced
	SyncFailed
)

// ChangeSetting applies key locally, then pushes the full preferences to
// the server when logged in. Only the local change can fail the call.
func (app *Application) ChangeSetting(ctx context.Context, key string, value any) (SyncResult, error) {
	if err := app.prefs.Set(ctx, key, value); err != nil {
		return SyncSkipped, err
	}
	return app.syncBestEffort(ctx), nil
}

// ResetSettings restores the defaults locally and on the server.
func (app *Application) ResetSettings(ctx context.Context) (SyncResult, error) {
	if err := app.prefs.Reset(ctx); err != nil {
		return SyncSkipped, err
	}
	return app.syncBestEffort(ctx), nil
}

func (app *Application) syncBestEffort(ctx context.Context) SyncResult {
	if !app.cfg.SyncSettings || !app.session.IsAuthenticated() {
		return SyncSkipped
	}
	if err := app.session.SyncSettings(ctx, app.prefs.Get()); err != nil {
		app.logger.Warn("settings sync failed", "err", err)
		return SyncFailed
	}
	return Synced
}

// PushSettings sends the local preferences to the server and reports
// failures.
func (app *Application) PushSettings(ctx context.Context) error {
	return app.session.SyncSettings(ctx, app.prefs.Get())
}

// PullSettings replaces the local preferences with the ones stored on the
// server for the current user.
func (app *Application) PullSettings(ctx context.Context) error {
	user := app.session.CurrentUser()
	if user == nil {
		return &a11ysdk.APIError{Kind: a11ysdk.KindUnauthenticated, Message: "No token found"}
	}
	return app.prefs.Replace(ctx, user.AccessibilityNeeds)
}

func (app *Application) Session() *session.Store    { return app.session }
func (app *Application) Prefs() *prefs.Store        { return app.prefs }
func (app *Application) Client() *a11ysdk.SDKClient { return app.client }
func (app *Application) Config() Config             { return app.cfg }
func (app *Application) Logger() *slog.Logger       { return app.logger }

// Close releases the state store.
func (app *Application) Close() error {
	if app.unsubscribe != nil {
		app.unsubscribe()
	}
	if err := app.db.Close(); err != nil {
		return fmt.Errorf("close state store: %w", err)
	}
	return nil
}
