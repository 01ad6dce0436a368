package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/corvusmed/painmap/internal/services"
	"github.com/spf13/cobra"
)

func newCheckinCommand(application *app) *cobra.Command {
	var (
		painLevel  int
		note       string
		title      string
		bodyPart   string
		trackingID string
		sameDay    bool
		imagePath  string
	)

	command := &cobra.Command{
		Use:   "checkin",
		Short: "Record a pain check-in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := application.requireSession()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			form := services.NewCheckinForm()
			form.PainLevel = painLevel
			form.Note = note
			form.InjuryTitle = title
			form.TrackingInjuryID = trackingID
			form.IsSameDayUpdate = sameDay

			if imagePath != "" {
				upload, err := readImageUpload(imagePath)
				if err != nil {
					return err
				}
				form.Image = upload
			}

			part := application.activePart(bodyPart)
			injuries := application.tracker.LoadInjuries(ctx, session.UserID, part)
			storeData := application.profile.LoadStoreData(ctx, session.UserID)

			if err := application.checkin.Submit(ctx, session.UserID, &form, part, injuries, storeData); err != nil {
				return err
			}
			if !storeData {
				fmt.Fprintln(cmd.OutOrStdout(), "Data storage is off; nothing was saved.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Check-in saved.")
			return nil
		},
	}

	command.Flags().IntVar(&painLevel, "pain", 5, "pain level from 1 to 10")
	command.Flags().StringVar(&note, "note", "", "notes for this entry")
	command.Flags().StringVar(&title, "injury", "", "injury name for a new injury")
	command.Flags().StringVar(&bodyPart, "part", "", "body part id, e.g. left-knee")
	command.Flags().StringVar(&trackingID, "track", "", "continue an existing injury by id")
	command.Flags().BoolVar(&sameDay, "same-day", false, "update today's entry instead of starting a new day")
	command.Flags().StringVar(&imagePath, "image", "", "path to a photo to attach")
	return command
}

func readImageUpload(path string) (*services.ImageUpload, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", path, err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &services.ImageUpload{
		FileName:    filepath.Base(path),
		Content:     content,
		ContentType: contentType,
	}, nil
}
