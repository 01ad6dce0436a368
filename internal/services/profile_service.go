package services

import (
	"context"
	"errors"
	"time"

	"github.com/corvusmed/painmap/internal/models"
	"go.uber.org/zap"
)

var (
	ErrPreferenceUpdateFailed = errors.New("update preference failed")
	ErrDeleteAllDataFailed    = errors.New("delete all data failed")
)

type ProfileStore interface {
	FetchPreference(ctx context.Context, userID string) (models.UserPreference, bool, error)
	UpdatePreference(ctx context.Context, userID string, updates map[string]any) error
	DeletePreference(ctx context.Context, userID string) error
	DeleteLogsByUser(ctx context.Context, userID string) error
}

type ProfileAuth interface {
	SignOut(ctx context.Context) error
}

type ProfileService struct {
	store  ProfileStore
	auth   ProfileAuth
	logger *zap.Logger
	now    func() time.Time
}

func NewProfileService(store ProfileStore, auth ProfileAuth, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		store:  store,
		auth:   auth,
		logger: logger,
		now:    time.Now,
	}
}

// LoadStoreData reads the store-data flag, defaulting to true when no
// preference row exists or the read fails.
func (service *ProfileService) LoadStoreData(ctx context.Context, userID string) bool {
	preference, found, err := service.store.FetchPreference(ctx, userID)
	if err != nil {
		service.logger.Error("load preferences", zap.String("user_id", userID), zap.Error(err))
		return true
	}
	if !found {
		return true
	}
	return preference.StoreData
}

// SetStoreData flips the store-data flag. The caller is responsible for the
// blocking confirmation step before calling this.
func (service *ProfileService) SetStoreData(ctx context.Context, userID string, value bool) error {
	updates := map[string]any{
		"store_data": value,
		"updated_at": service.now().UTC(),
	}
	if err := service.store.UpdatePreference(ctx, userID, updates); err != nil {
		service.logger.Error("update preferences", zap.String("user_id", userID), zap.Error(err))
		return ErrPreferenceUpdateFailed
	}
	return nil
}

// DeleteAllData removes every log row for the user. Injury rows and stored
// images are left behind; logs are the only table this sweep covers.
func (service *ProfileService) DeleteAllData(ctx context.Context, userID string) error {
	if err := service.store.DeleteLogsByUser(ctx, userID); err != nil {
		service.logger.Error("delete all logs", zap.String("user_id", userID), zap.Error(err))
		return ErrDeleteAllDataFailed
	}
	return nil
}

// DeleteAccount removes the user's logs, then their preference row, then
// signs them out. Each step is fire-and-forget: a failure does not stop the
// later steps, and only the first error is reported.
func (service *ProfileService) DeleteAccount(ctx context.Context, userID string) error {
	var firstErr error

	if err := service.store.DeleteLogsByUser(ctx, userID); err != nil {
		service.logger.Error("delete account: remove logs", zap.String("user_id", userID), zap.Error(err))
		firstErr = err
	}
	if err := service.store.DeletePreference(ctx, userID); err != nil {
		service.logger.Error("delete account: remove preferences", zap.String("user_id", userID), zap.Error(err))
		if firstErr == nil {
			firstErr = err
		}
	}
	if err := service.auth.SignOut(ctx); err != nil {
		service.logger.Error("delete account: sign out", zap.String("user_id", userID), zap.Error(err))
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
