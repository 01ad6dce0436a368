package cli

import (
	"fmt"
	"strings"

	"github.com/corvusmed/painmap/internal/models"
	"github.com/corvusmed/painmap/internal/services"
	"github.com/spf13/cobra"
)

func findLog(injuries []models.Injury, logID string) (models.PainLog, bool) {
	for _, injury := range injuries {
		for _, entry := range injury.Logs {
			if entry.ID == logID {
				return entry, true
			}
		}
	}
	return models.PainLog{}, false
}

// resolveInjury accepts an injury id or an exact title, case-insensitive.
func resolveInjury(injuries []models.Injury, ref string) (models.Injury, bool) {
	for _, injury := range injuries {
		if injury.ID == ref || strings.EqualFold(injury.Title, ref) {
			return injury, true
		}
	}
	return models.Injury{}, false
}

func newEditLogCommand(application *app) *cobra.Command {
	var (
		painLevel   int
		note        string
		imagePath   string
		removeImage bool
	)

	command := &cobra.Command{
		Use:   "edit-log <log-id>",
		Short: "Change a log entry's pain level, note, or photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := application.requireSession()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			injuries := application.tracker.LoadInjuries(ctx, session.UserID, "")
			entry, ok := findLog(injuries, args[0])
			if !ok {
				return fmt.Errorf("log entry %s not found", args[0])
			}

			update := services.LogUpdate{
				PainLevel:   entry.PainLevel,
				Note:        entry.Note,
				RemoveImage: removeImage,
			}
			if cmd.Flags().Changed("pain") {
				update.PainLevel = painLevel
			}
			if cmd.Flags().Changed("note") {
				update.Note = note
			}
			if imagePath != "" {
				upload, err := readImageUpload(imagePath)
				if err != nil {
					return err
				}
				update.NewImage = upload
			}

			if err := application.tracker.UpdateLog(ctx, session.UserID, entry, update); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Log entry updated.")
			return nil
		},
	}

	command.Flags().IntVar(&painLevel, "pain", 0, "new pain level from 1 to 10")
	command.Flags().StringVar(&note, "note", "", "new note text")
	command.Flags().StringVar(&imagePath, "image", "", "path to a replacement photo")
	command.Flags().BoolVar(&removeImage, "remove-image", false, "drop the stored photo")
	return command
}

func newDeleteLogCommand(application *app) *cobra.Command {
	var skipConfirm bool

	command := &cobra.Command{
		Use:   "delete-log <log-id>",
		Short: "Delete a single log entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := application.requireSession()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			injuries := application.tracker.LoadInjuries(ctx, session.UserID, "")
			entry, ok := findLog(injuries, args[0])
			if !ok {
				return fmt.Errorf("log entry %s not found", args[0])
			}

			question := fmt.Sprintf("Delete day %d entry? This cannot be undone.", entry.DayNumber)
			if !skipConfirm && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), question) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			if err := application.tracker.DeleteLog(ctx, session.UserID, entry); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Log entry deleted.")
			return nil
		},
	}
	command.Flags().BoolVar(&skipConfirm, "yes", false, "skip the confirmation prompt")
	return command
}

func newDeleteInjuryCommand(application *app) *cobra.Command {
	var skipConfirm bool

	command := &cobra.Command{
		Use:   "delete-injury <injury-id-or-title>",
		Short: "Delete an injury and all of its log entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := application.requireSession()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			injuries := application.tracker.LoadInjuries(ctx, session.UserID, "")
			injury, ok := resolveInjury(injuries, args[0])
			if !ok {
				return fmt.Errorf("injury %q not found", args[0])
			}

			question := fmt.Sprintf("Delete %q and its %d log entries? This cannot be undone.",
				injury.Title, len(injury.Logs))
			if !skipConfirm && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), question) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			if err := application.tracker.DeleteInjury(ctx, session.UserID, injury); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Injury deleted.")
			return nil
		},
	}
	command.Flags().BoolVar(&skipConfirm, "yes", false, "skip the confirmation prompt")
	return command
}

func newRenameInjuryCommand(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename-injury <injury-id-or-title> <new-title>",
		Short: "Rename an injury",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := application.requireSession()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			injuries := application.tracker.LoadInjuries(ctx, session.UserID, "")
			injury, ok := resolveInjury(injuries, args[0])
			if !ok {
				return fmt.Errorf("injury %q not found", args[0])
			}

			if err := application.tracker.RenameInjury(ctx, injury.ID, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed to %q.\n", strings.TrimSpace(args[1]))
			return nil
		},
	}
}
