package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/corvusmed/painmap/internal/models"
	"go.uber.org/zap"
)

var (
	ErrInjuryTitleMissing = errors.New("injury title is required")
	ErrLogUpdateFailed    = errors.New("update log entry failed")
	ErrLogDeleteFailed    = errors.New("delete log entry failed")
	ErrInjuryDeleteFailed = errors.New("delete injury failed")
)

type TrackerStore interface {
	ListInjuries(ctx context.Context, userID string, bodyPartID string) ([]models.Injury, error)
	ListLogsByInjury(ctx context.Context, injuryID string) ([]models.PainLog, error)
	CountLogsByInjury(ctx context.Context, injuryID string) (int, error)
	UpdateLog(ctx context.Context, logID string, updates map[string]any) error
	DeleteLog(ctx context.Context, logID string) error
	UpdateInjury(ctx context.Context, injuryID string, updates map[string]any) error
	DeleteInjury(ctx context.Context, injuryID string) error
}

// ImageStore is the slice of the object store the tracker needs. RemoveImage
// failures are best-effort cleanup: callers discard them on purpose, at the
// cost of the occasional orphaned object.
type ImageStore interface {
	UploadImage(ctx context.Context, objectKey string, content []byte, contentType string) error
	PublicImageURL(objectKey string) string
	RemoveImage(ctx context.Context, objectKey string) error
}

// ImageUpload is a photo picked by the user, not yet stored.
type ImageUpload struct {
	FileName    string
	Content     []byte
	ContentType string
}

// LogUpdate carries the editable fields of one log entry. NewImage replaces
// the stored photo; RemoveImage drops it without a replacement.
type LogUpdate struct {
	PainLevel   int
	Note        string
	NewImage    *ImageUpload
	RemoveImage bool
}

type TrackerService struct {
	store  TrackerStore
	images ImageStore
	logger *zap.Logger
	now    func() time.Time
}

func NewTrackerService(store TrackerStore, images ImageStore, logger *zap.Logger) *TrackerService {
	return &TrackerService{
		store:  store,
		images: images,
		logger: logger,
		now:    time.Now,
	}
}

// LoadInjuries returns the user's active injuries, each populated with its
// logs in day order, filtered to the selected body part when one is set.
// Any read failure is logged and collapses to an empty list: the display
// never shows a partially loaded injury.
func (service *TrackerService) LoadInjuries(ctx context.Context, userID string, selectedPart string) []models.Injury {
	injuries, err := service.store.ListInjuries(ctx, userID, selectedPart)
	if err != nil {
		service.logger.Error("load injuries", zap.String("user_id", userID), zap.Error(err))
		return []models.Injury{}
	}

	for i := range injuries {
		logs, err := service.store.ListLogsByInjury(ctx, injuries[i].ID)
		if err != nil {
			service.logger.Error("load logs for injury",
				zap.String("injury_id", injuries[i].ID), zap.Error(err))
			return []models.Injury{}
		}
		injuries[i].Logs = logs
	}
	return injuries
}

// UpdateLog overwrites the changed fields of one log entry. A new image is
// uploaded before the row is written so the row never references a missing
// object; the replaced or removed image is deleted afterwards best-effort.
func (service *TrackerService) UpdateLog(ctx context.Context, userID string, entry models.PainLog, update LogUpdate) error {
	if update.PainLevel < models.MinPainLevel || update.PainLevel > models.MaxPainLevel {
		return ErrPainLevelOutOfRange
	}

	imageValue := any(entry.ImageURL)
	if entry.ImageURL == "" {
		imageValue = nil
	}

	switch {
	case update.NewImage != nil:
		imageURL, err := service.uploadImage(ctx, userID, update.NewImage)
		if err != nil {
			return err
		}
		if entry.ImageURL != "" {
			_ = service.removeImageByURL(ctx, userID, entry.ImageURL)
		}
		imageValue = imageURL
	case update.RemoveImage && entry.ImageURL != "":
		_ = service.removeImageByURL(ctx, userID, entry.ImageURL)
		imageValue = nil
	}

	updates := map[string]any{
		"pain_level": update.PainLevel,
		"note":       update.Note,
		"image_url":  imageValue,
	}
	if err := service.store.UpdateLog(ctx, entry.ID, updates); err != nil {
		service.logger.Error("update log", zap.String("log_id", entry.ID), zap.Error(err))
		return ErrLogUpdateFailed
	}
	return nil
}

// RenameInjury sets a new user-visible title.
func (service *TrackerService) RenameInjury(ctx context.Context, injuryID string, title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return ErrInjuryTitleMissing
	}
	return service.store.UpdateInjury(ctx, injuryID, map[string]any{"title": trimmed})
}

// DeleteLog removes one entry and, when it was the injury's last log, the
// now-empty injury record as well. The cascade runs client-side; the backend
// only cascades the other way (injury -> logs).
func (service *TrackerService) DeleteLog(ctx context.Context, userID string, entry models.PainLog) error {
	if entry.ImageURL != "" {
		_ = service.removeImageByURL(ctx, userID, entry.ImageURL)
	}
	if err := service.store.DeleteLog(ctx, entry.ID); err != nil {
		service.logger.Error("delete log", zap.String("log_id", entry.ID), zap.Error(err))
		return ErrLogDeleteFailed
	}

	if entry.InjuryID == "" {
		return nil
	}
	remaining, err := service.store.CountLogsByInjury(ctx, entry.InjuryID)
	if err != nil {
		service.logger.Error("count remaining logs", zap.String("injury_id", entry.InjuryID), zap.Error(err))
		return ErrLogDeleteFailed
	}
	if remaining == 0 {
		if err := service.store.DeleteInjury(ctx, entry.InjuryID); err != nil {
			service.logger.Error("delete empty injury", zap.String("injury_id", entry.InjuryID), zap.Error(err))
			return ErrLogDeleteFailed
		}
	}
	return nil
}

// DeleteInjury sweeps the injury's stored images best-effort, then deletes
// the injury record. Its log rows cascade server-side.
func (service *TrackerService) DeleteInjury(ctx context.Context, userID string, injury models.Injury) error {
	for _, entry := range injury.Logs {
		if entry.ImageURL != "" {
			_ = service.removeImageByURL(ctx, userID, entry.ImageURL)
		}
	}
	if err := service.store.DeleteInjury(ctx, injury.ID); err != nil {
		service.logger.Error("delete injury", zap.String("injury_id", injury.ID), zap.Error(err))
		return ErrInjuryDeleteFailed
	}
	return nil
}

func (service *TrackerService) uploadImage(ctx context.Context, userID string, upload *ImageUpload) (string, error) {
	objectKey := imageObjectKey(userID, upload.FileName, service.now())
	if err := service.images.UploadImage(ctx, objectKey, upload.Content, upload.ContentType); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return service.images.PublicImageURL(objectKey), nil
}

func (service *TrackerService) removeImageByURL(ctx context.Context, userID string, imageURL string) error {
	objectKey := objectKeyFromURL(imageURL, userID)
	if objectKey == "" {
		return nil
	}
	return service.images.RemoveImage(ctx, objectKey)
}

// imageObjectKey builds the "{user_id}/{unix_ms}.{ext}" storage key.
func imageObjectKey(userID string, fileName string, now time.Time) string {
	ext := strings.TrimPrefix(path.Ext(fileName), ".")
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("%s/%d.%s", userID, now.UnixMilli(), ext)
}

func objectKeyFromURL(imageURL string, userID string) string {
	trimmed := strings.TrimRight(imageURL, "/")
	slash := strings.LastIndex(trimmed, "/")
	if slash < 0 {
		return ""
	}
	return userID + "/" + trimmed[slash+1:]
}
