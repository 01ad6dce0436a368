package cli

import (
	"context"

	"github.com/corvusmed/painmap/internal/backend"
	"github.com/corvusmed/painmap/internal/models"
	"github.com/corvusmed/painmap/internal/services"
)

// backendStore bridges the check-in service's write payloads to the backend
// client's wire types. Every other store interface matches the client
// directly; only the insert payloads need translating.
type backendStore struct {
	*backend.Client
}

func (store backendStore) InsertLog(ctx context.Context, insert services.NewLog) (models.PainLog, error) {
	return store.Client.InsertLog(ctx, backend.LogInsert{
		UserID:     insert.UserID,
		BodyPartID: insert.BodyPartID,
		PainLevel:  insert.PainLevel,
		Note:       insert.Note,
		ImageURL:   insert.ImageURL,
		InjuryID:   insert.InjuryID,
		DayNumber:  insert.DayNumber,
	})
}

func (store backendStore) InsertInjury(ctx context.Context, insert services.NewInjury) (models.Injury, error) {
	return store.Client.InsertInjury(ctx, backend.InjuryInsert{
		UserID:     insert.UserID,
		BodyPartID: insert.BodyPartID,
		Title:      insert.Title,
	})
}
