package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/corvusmed/painmap/internal/models"
	"github.com/corvusmed/painmap/internal/services"
)

const textDateLayout = "Jan 2, 2006"

// WriteText renders the plain-text report: a header block followed by one
// paragraph per log in day order, separated by rule lines.
func WriteText(w io.Writer, injury models.Injury, now time.Time, location *time.Location) error {
	var b strings.Builder

	bodyPart := injury.BodyPartID
	if bodyPart == "" {
		bodyPart = "Not specified"
	}

	fmt.Fprintf(&b, "%s\n", injury.Title)
	fmt.Fprintf(&b, "Location: %s\n", bodyPart)
	fmt.Fprintf(&b, "Started: %s\n", injury.CreatedAt.In(location).Format(textDateLayout))
	fmt.Fprintf(&b, "Last Updated: %s\n", injury.LastLoggedAt.In(location).Format(textDateLayout))
	fmt.Fprintf(&b, "Total Logs: %d\n", len(injury.Logs))
	fmt.Fprintf(&b, "Generated: %s\n", now.In(location).Format(textDateLayout))
	b.WriteString("\nProgress Timeline:\n")

	for _, entry := range injury.Logs {
		note := entry.Note
		if note == "" {
			note = "No notes"
		}
		fmt.Fprintf(&b, "\nDay %d - %s\n", entry.DayNumber, services.FormatRelativeDate(entry.CreatedAt, now, location))
		fmt.Fprintf(&b, "Pain Level: %d/10\n", entry.PainLevel)
		fmt.Fprintf(&b, "Notes: %s\n", note)
		b.WriteString("-------------------\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
