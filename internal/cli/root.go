// Package cli implements the painmap command line client. Every command talks
// to the hosted backend through the shared client; nothing is stored locally
// except the session token.
package cli

import (
	"time"

	"github.com/corvusmed/painmap/internal/backend"
	"github.com/corvusmed/painmap/internal/config"
	"github.com/corvusmed/painmap/internal/services"
	"github.com/corvusmed/painmap/internal/state"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	config   *config.Config
	logger   *zap.Logger
	location *time.Location
	now      func() time.Time

	client    *backend.Client
	selection *state.SelectionStore
	tracker   *services.TrackerService
	checkin   *services.CheckinService
	profile   *services.ProfileService
}

func newApp(cfg *config.Config, logger *zap.Logger, location *time.Location) *app {
	client := backend.New(backend.Config{
		BaseURL: cfg.Backend.URL,
		AnonKey: cfg.Backend.AnonKey,
		Bucket:  cfg.Backend.Bucket,
	})
	store := backendStore{Client: client}

	return &app{
		config:   cfg,
		logger:   logger,
		location: location,
		now:       time.Now,
		client:    client,
		selection: state.NewSelectionStore(),
		tracker:   services.NewTrackerService(client, client, logger),
		checkin:   services.NewCheckinService(store, client, logger),
		profile:   services.NewProfileService(client, client, logger),
	}
}

// activePart records the --part flag in the selection store and returns the
// body part the command should operate on. An empty flag clears any prior
// selection so the command sees everything.
func (application *app) activePart(partID string) string {
	if partID == "" {
		application.selection.ClearSelection()
	} else {
		application.selection.SelectPart(partID)
	}
	return application.selection.SelectedPart()
}

// requireSession restores the saved session onto the client. Commands that
// touch user data call this first.
func (application *app) requireSession() (backend.Session, error) {
	session, err := loadSession(application.config.SessionFile)
	if err != nil {
		return backend.Session{}, err
	}
	application.client.SetSession(session)
	return session, nil
}

func NewRootCommand(cfg *config.Config, logger *zap.Logger, location *time.Location) *cobra.Command {
	application := newApp(cfg, logger, location)

	root := &cobra.Command{
		Use:           "painmap",
		Short:         "Track pain and symptoms over time",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCommand(application),
		newLogoutCommand(application),
		newCheckinCommand(application),
		newListCommand(application),
		newEditLogCommand(application),
		newDeleteLogCommand(application),
		newDeleteInjuryCommand(application),
		newRenameInjuryCommand(application),
		newExportCommand(application),
		newProfileCommand(application),
	)
	return root
}
