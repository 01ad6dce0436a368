package cli

import (
	"fmt"
	"strings"

	"github.com/corvusmed/painmap/internal/backend"
	"github.com/spf13/cobra"
)

func newLoginCommand(application *app) *cobra.Command {
	var register bool

	command := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in and save the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := strings.ToLower(strings.TrimSpace(args[0]))
			if email == "" {
				return fmt.Errorf("email is required")
			}

			password, err := promptPassword(cmd.OutOrStdout(), "Password")
			if err != nil {
				return err
			}
			if password == "" {
				return fmt.Errorf("password is required")
			}

			ctx := cmd.Context()
			var session backend.Session
			if register {
				session, err = application.client.SignUp(ctx, email, password)
			} else {
				session, err = application.client.SignIn(ctx, email, password)
			}
			if err != nil {
				return fmt.Errorf("sign in: %w", err)
			}

			if err := saveSession(application.config.SessionFile, session); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", session.Email)
			return nil
		},
	}
	command.Flags().BoolVar(&register, "register", false, "create a new account instead of signing in")
	return command
}

func newLogoutCommand(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := application.requireSession(); err == nil {
				// Best-effort server-side revocation; the local session is
				// cleared either way.
				_ = application.client.SignOut(cmd.Context())
			}
			if err := clearSession(application.config.SessionFile); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
