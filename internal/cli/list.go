package cli

import (
	"fmt"
	"strings"

	"github.com/corvusmed/painmap/internal/models"
	"github.com/corvusmed/painmap/internal/services"
	"github.com/spf13/cobra"
)

const notePreviewLength = 60

func newListCommand(application *app) *cobra.Command {
	var (
		bodyPart string
		showLogs bool
	)

	command := &cobra.Command{
		Use:   "list",
		Short: "Show tracked injuries and their progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := application.requireSession()
			if err != nil {
				return err
			}

			part := application.activePart(bodyPart)
			injuries := application.tracker.LoadInjuries(cmd.Context(), session.UserID, part)
			if len(injuries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tracked injuries yet.")
				return nil
			}

			out := cmd.OutOrStdout()
			now := application.now()
			for _, injury := range injuries {
				fmt.Fprintf(out, "%s  [Day %d]  avg pain %d/10\n",
					injury.Title, injury.MaxDay(), injury.AveragePain())
				fmt.Fprintf(out, "  id: %s", injury.ID)
				if injury.BodyPartID != "" {
					fmt.Fprintf(out, "  part: %s", injury.BodyPartID)
				}
				fmt.Fprintln(out)

				if latest, ok := injury.LatestLog(); ok {
					when := services.FormatRelativeDate(latest.CreatedAt, now, application.location)
					fmt.Fprintf(out, "  last log: %s, pain %d/10 (%s)\n",
						when, latest.PainLevel, models.PainBand(latest.PainLevel))
					if latest.Note != "" {
						fmt.Fprintf(out, "  note: %s\n", previewNote(latest.Note))
					}
				}

				if showLogs {
					for _, entry := range injury.Logs {
						when := services.FormatRelativeDate(entry.CreatedAt, now, application.location)
						fmt.Fprintf(out, "    day %d  pain %d/10  %s  id: %s\n",
							entry.DayNumber, entry.PainLevel, when, entry.ID)
					}
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	command.Flags().StringVar(&bodyPart, "part", "", "only injuries for this body part id")
	command.Flags().BoolVar(&showLogs, "logs", false, "include every log entry")
	return command
}

func previewNote(note string) string {
	collapsed := strings.Join(strings.Fields(note), " ")
	// Truncate on runes, not bytes, so a multi-byte character at the cut
	// point is kept whole instead of turning into a replacement character.
	runes := []rune(collapsed)
	if len(runes) <= notePreviewLength {
		return collapsed
	}
	return string(runes[:notePreviewLength]) + "..."
}
