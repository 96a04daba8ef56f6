package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aussiebroadwan/inclusive/internal/app"
	"github.com/aussiebroadwan/inclusive/pkg/prefs"
	"github.com/spf13/cobra"
)

func newSettingsCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View and change accessibility preferences",
	}

	cmd.AddCommand(
		newSettingsShowCmd(r),
		newSettingsKeysCmd(),
		newSettingsSetCmd(r),
		newSettingsResetCmd(r),
		newSettingsSyncCmd(r),
		newSettingsPullCmd(r),
	)
	return cmd
}

func newSettingsShowCmd(r *runner) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current preferences",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, args []string, a *app.Application) error {
			p := a.Prefs().Get()
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}

			values := p.Map()
			fmt.Fprintf(out, "%-14s  %-20s  %s\n", "GROUP", "KEY", "VALUE")
			for _, s := range prefs.Settings() {
				fmt.Fprintf(out, "%-14s  %-20s  %v\n", s.Group, s.Key, values[s.Key])
			}

			pres := p.Presentation()
			fmt.Fprintf(out, "\nTheme %s, %dpx text, high contrast %t, reduced motion %t\n",
				pres.Theme, pres.FontSizePx, pres.HighContrast, pres.ReducedMotion)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func newSettingsKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List every setting with its accepted values and default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-20s  %-14s  %-40s  %s\n", "KEY", "GROUP", "ACCEPTS", "DEFAULT")
			for _, s := range prefs.Settings() {
				fmt.Fprintf(out, "%-20s  %-14s  %-40s  %v\n", s.Key, s.Group, s.Describe(), s.Default())
			}
			return nil
		},
	}
}

func newSettingsSetCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: r.run(func(cmd *cobra.Command, args []string, a *app.Application) error {
			key := args[0]
			value, err := prefs.ParseValue(key, args[1])
			if err != nil {
				return err
			}

			result, err := a.ChangeSetting(cmd.Context(), key, value)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s = %v", key, value)
			printSync(cmd.OutOrStdout(), result)
			return nil
		}),
	}
}

func newSettingsResetCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore every setting to its default",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, args []string, a *app.Application) error {
			result, err := a.ResetSettings(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), "Settings reset to defaults")
			printSync(cmd.OutOrStdout(), result)
			return nil
		}),
	}
}

func printSync(w io.Writer, result app.SyncResult) {
	switch result {
	case app.Synced:
		fmt.Fprintln(w, " (saved to your account)")
	case app.SyncFailed:
		fmt.Fprintln(w, " (saved locally; account sync failed)")
	default:
		fmt.Fprintln(w)
	}
}

func newSettingsSyncCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push the local preferences to your account",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, args []string, a *app.Application) error {
			if err := a.PushSettings(cmd.Context()); err != nil {
				return fmt.Errorf("sync settings: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Settings saved to your account")
			return nil
		}),
	}
}

func newSettingsPullCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Replace the local preferences with those stored in your account",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, args []string, a *app.Application) error {
			before := a.Prefs().Get()
			if err := a.PullSettings(cmd.Context()); err != nil {
				return fmt.Errorf("pull settings: %w", err)
			}

			changed := before.Diff(a.Prefs().Get())
			fmt.Fprintf(cmd.OutOrStdout(), "Settings loaded from your account (%d changed)\n", len(changed))
			return nil
		}),
	}
}
