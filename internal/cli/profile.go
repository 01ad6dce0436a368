package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProfileCommand(application *app) *cobra.Command {
	command := &cobra.Command{
		Use:   "profile",
		Short: "Account and privacy settings",
	}
	command.AddCommand(
		newProfileShowCommand(application),
		newProfileStoreDataCommand(application),
		newProfileDeleteDataCommand(application),
		newProfileDeleteAccountCommand(application),
	)
	return command
}

func newProfileShowCommand(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the signed-in account and its settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := application.requireSession()
			if err != nil {
				return err
			}

			storeData := application.profile.LoadStoreData(cmd.Context(), session.UserID)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Email: %s\n", session.Email)
			fmt.Fprintf(out, "Store my data: %s\n", onOff(storeData))
			return nil
		},
	}
}

func newProfileStoreDataCommand(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "store-data <on|off>",
		Short: "Toggle whether check-ins are stored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value bool
			switch args[0] {
			case "on":
				value = true
			case "off":
				value = false
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}

			session, err := application.requireSession()
			if err != nil {
				return err
			}
			if err := application.profile.SetStoreData(cmd.Context(), session.UserID, value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Store my data: %s\n", onOff(value))
			return nil
		},
	}
}

func newProfileDeleteDataCommand(application *app) *cobra.Command {
	var skipConfirm bool

	command := &cobra.Command{
		Use:   "delete-data",
		Short: "Delete all stored log entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := application.requireSession()
			if err != nil {
				return err
			}

			question := "Delete all of your log entries? This cannot be undone."
			if !skipConfirm && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), question) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			if err := application.profile.DeleteAllData(cmd.Context(), session.UserID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All log entries deleted.")
			return nil
		},
	}
	command.Flags().BoolVar(&skipConfirm, "yes", false, "skip the confirmation prompt")
	return command
}

func newProfileDeleteAccountCommand(application *app) *cobra.Command {
	var skipConfirm bool

	command := &cobra.Command{
		Use:   "delete-account",
		Short: "Delete the account's data and sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := application.requireSession()
			if err != nil {
				return err
			}

			question := "Delete your account data and sign out? This cannot be undone."
			if !skipConfirm && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), question) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			err = application.profile.DeleteAccount(cmd.Context(), session.UserID)
			// The server-side session is gone even when a step failed, so the
			// saved token is always dropped.
			if clearErr := clearSession(application.config.SessionFile); clearErr != nil && err == nil {
				err = clearErr
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account data deleted.")
			return nil
		},
	}
	command.Flags().BoolVar(&skipConfirm, "yes", false, "skip the confirmation prompt")
	return command
}

func onOff(value bool) string {
	if value {
		return "on"
	}
	return "off"
}
