package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/corvusmed/painmap/internal/report"
	"github.com/spf13/cobra"
)

func newExportCommand(application *app) *cobra.Command {
	var (
		format string
		outDir string
	)

	command := &cobra.Command{
		Use:   "export <injury-id-or-title>",
		Short: "Export an injury's progress report as TXT or PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "txt" && format != "pdf" {
				return fmt.Errorf("unsupported format %q, use txt or pdf", format)
			}

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

			now := application.now()
			outPath := filepath.Join(outDir, report.FileName(injury.Title, format, now))
			file, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create report file: %w", err)
			}
			defer file.Close()

			switch format {
			case "txt":
				err = report.WriteText(file, injury, now, application.location)
			case "pdf":
				err = report.WritePDF(ctx, file, injury, application.client, now, application.location)
			}
			if err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("close report file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outPath)
			return nil
		},
	}

	command.Flags().StringVar(&format, "format", "txt", "report format: txt or pdf")
	command.Flags().StringVar(&outDir, "out", ".", "directory for the report file")
	return command
}
