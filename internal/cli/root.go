package cli

import (
	"time"

	"github.com/aussiebroadwan/inclusive/internal/app"
	"github.com/spf13/cobra"
)

// flags holds the persistent flags. Defaults come from the environment so
// a flag only needs passing to override it.
type flags struct {
	apiURL    string
	stateFile string
	timeout   time.Duration
	noSync    bool
	debug     bool
	logLevel  string
	logFormat string
}

// NewRootCmd creates the root cobra command for the a11y CLI.
func NewRootCmd() *cobra.Command {
	cfg := app.LoadConfig()
	f := &flags{}

	root := &cobra.Command{
		Use:   "a11y",
		Short: "Accessibility platform client",
		Long:  "a11y signs in to the accessibility platform and manages your accessibility preferences.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if f.debug {
				f.logLevel = "debug"
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.apiURL, "api-url", cfg.APIURL, "Platform API base URL (or A11Y_API_URL env)")
	pf.StringVar(&f.stateFile, "state-file", cfg.StateFile, "Local state database, or :memory: (or A11Y_STATE_FILE env)")
	pf.DurationVar(&f.timeout, "timeout", cfg.HTTPTimeout, "Per-request timeout (or A11Y_HTTP_TIMEOUT env)")
	pf.BoolVar(&f.noSync, "no-sync", !cfg.SyncSettings, "Do not push settings changes to the server")
	pf.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	pf.StringVar(&f.logLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pf.StringVar(&f.logFormat, "log-format", cfg.LogFormat, "Log format (text, json)")

	r := &runner{base: cfg, flags: f}
	root.AddCommand(
		newLoginCmd(r),
		newRegisterCmd(r),
		newLogoutCmd(r),
		newWhoamiCmd(r),
		newStatusCmd(r),
		newSettingsCmd(r),
	)

	return root
}

// runner opens the application for a single command.
type runner struct {
	base  app.Config
	flags *flags
}

func (r *runner) config(cmd *cobra.Command) app.Config {
	cfg := r.base
	cfg.APIURL = r.flags.apiURL
	cfg.StateFile = r.flags.stateFile
	cfg.HTTPTimeout = r.flags.timeout
	cfg.SyncSettings = !r.flags.noSync
	cfg.LogLevel = r.flags.logLevel
	cfg.LogFormat = r.flags.logFormat
	cfg.LogOutput = cmd.ErrOrStderr()
	return cfg
}

// run starts the application, hands it to fn and closes it afterwards.
func (r *runner) run(fn func(cmd *cobra.Command, args []string, a *app.Application) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := app.New(r.config(cmd))
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		a.Start(cmd.Context())
		return fn(cmd, args, a)
	}
}
