package cli

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/inclusive/internal/app"
	"github.com/aussiebroadwan/inclusive/internal/session"
	"github.com/aussiebroadwan/inclusive/pkg/a11ysdk"
	"github.com/spf13/cobra"
)

func newLoginCmd(r *runner) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, args []string, a *app.Application) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var err error

			if username == "" {
				if username, err = promptText(in, cmd.ErrOrStderr(), "Username: "); err != nil {
					return fmt.Errorf("read username: %w", err)
				}
			}
			if password == "" {
				if password, err = promptPassword(cmd.ErrOrStderr(), "Password: "); err != nil {
					return err
				}
			}

			user, err := a.Session().Login(cmd.Context(), a11ysdk.Credentials{Username: username, Password: password})
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", user.Username, user.Role)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted if omitted)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted if omitted)")
	return cmd
}

func newRegisterCmd(r *runner) *cobra.Command {
	var (
		req          a11ysdk.RegisterRequest
		role         string
		withSettings bool
		thenLogin    bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, args []string, a *app.Application) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var err error

			if req.Username == "" {
				if req.Username, err = promptText(in, cmd.ErrOrStderr(), "Username: "); err != nil {
					return fmt.Errorf("read username: %w", err)
				}
			}
			if req.Email == "" {
				if req.Email, err = promptText(in, cmd.ErrOrStderr(), "Email: "); err != nil {
					return fmt.Errorf("read email: %w", err)
				}
			}
			if req.Password == "" {
				if req.Password, err = promptPassword(cmd.ErrOrStderr(), "Password: "); err != nil {
					return err
				}
				if req.ConfirmPassword, err = promptPassword(cmd.ErrOrStderr(), "Confirm password: "); err != nil {
					return err
				}
			}

			req.Role = a11ysdk.Role(role)
			if withSettings {
				p := a.Prefs().Get()
				req.AccessibilityNeeds = &p
			}

			out := cmd.OutOrStdout()
			if !thenLogin {
				resp, err := a.Session().Register(cmd.Context(), req)
				if err != nil {
					return registerError(err)
				}
				fmt.Fprintln(out, resp.Message)
				return nil
			}

			user, err := a.Session().RegisterAndLogin(cmd.Context(), req)
			if err != nil {
				return registerError(err)
			}
			fmt.Fprintf(out, "Registered and logged in as %s (%s)\n", user.Username, user.Role)
			return nil
		}),
	}

	fl := cmd.Flags()
	fl.StringVarP(&req.Username, "username", "u", "", "Username (prompted if omitted)")
	fl.StringVarP(&req.Email, "email", "e", "", "Email address (prompted if omitted)")
	fl.StringVarP(&req.Password, "password", "p", "", "Password (prompted twice if omitted)")
	fl.StringVar(&role, "role", string(a11ysdk.RoleNormalUser), "Role: normal_user, accessibility_advocate or admin")
	fl.BoolVar(&withSettings, "with-settings", false, "Send the local preferences as the account's accessibility needs")
	fl.BoolVar(&thenLogin, "login", false, "Log in after registering")
	return cmd
}

func registerError(err error) error {
	var verr *session.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return fmt.Errorf("register: %w", err)
}

func newLogoutCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, args []string, a *app.Application) error {
			a.Session().Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		}),
	}
}

func newWhoamiCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, args []string, a *app.Application) error {
			out := cmd.OutOrStdout()

			user := a.Session().CurrentUser()
			if user == nil {
				fmt.Fprintln(out, "Not logged in")
				return nil
			}

			fmt.Fprintf(out, "%-10s %d\n", "ID:", user.ID)
			fmt.Fprintf(out, "%-10s %s\n", "Username:", user.Username)
			if user.Email != "" {
				fmt.Fprintf(out, "%-10s %s\n", "Email:", user.Email)
			}
			fmt.Fprintf(out, "%-10s %s\n", "Role:", user.Role)
			return nil
		}),
	}
}
