package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/corvusmed/painmap/internal/models"
	"go.uber.org/zap"
)

var (
	ErrInjuryIdentityMissing = errors.New("enter an injury name or select a body part")
	ErrPainLevelOutOfRange   = errors.New("pain level must be between 1 and 10")
	ErrCheckinFailed         = errors.New("save check-in failed")
)

const defaultPainLevel = 5

// CheckinForm is the transient state of the check-in form. TrackingInjuryID
// pins the submission to an explicit injury ("Track New Day" / "Update Day"
// on a card); IsSameDayUpdate distinguishes overwriting today's entry from
// starting the next day.
type CheckinForm struct {
	PainLevel        int
	Note             string
	InjuryTitle      string
	Image            *ImageUpload
	TrackingInjuryID string
	IsSameDayUpdate  bool
}

func NewCheckinForm() CheckinForm {
	return CheckinForm{PainLevel: defaultPainLevel}
}

// Reset returns every field to its post-submit state.
func (form *CheckinForm) Reset() {
	*form = NewCheckinForm()
}

// CheckinTarget is the resolved destination for a submission: either an
// existing injury or one to be created, plus the day number the new log gets.
type CheckinTarget struct {
	InjuryID    string
	DayNumber   int
	Create      bool
	CreateTitle string
	// TouchLastLogged is set for every branch except "new injury": the
	// target's last_logged_at moves to now alongside the log insert.
	TouchLastLogged bool
}

// ResolveTarget runs the day/injury resolution rules against the currently
// loaded injuries:
//
//  1. No tracking target, no selected part, no typed title: reject.
//  2. Tracking target set: continue that injury. Same-day update reuses the
//     last log's day number; a new day gets max existing day + 1, gaps from
//     deleted logs notwithstanding.
//  3. An active injury already exists for the selected part: reuse it, same
//     day rule.
//  4. Otherwise a new injury starts at day 1, titled from the typed input,
//     else "{part} Pain", else "New Injury".
func ResolveTarget(form CheckinForm, selectedPart string, injuries []models.Injury) (CheckinTarget, error) {
	title := strings.TrimSpace(form.InjuryTitle)
	if form.TrackingInjuryID == "" && selectedPart == "" && title == "" {
		return CheckinTarget{}, ErrInjuryIdentityMissing
	}

	if form.TrackingInjuryID != "" {
		target := CheckinTarget{InjuryID: form.TrackingInjuryID, DayNumber: 1}
		if injury, ok := findInjury(injuries, form.TrackingInjuryID); ok {
			target.DayNumber = nextDayNumber(injury, form.IsSameDayUpdate)
			target.TouchLastLogged = true
		}
		return target, nil
	}

	if selectedPart != "" {
		if injury, ok := findInjuryByPart(injuries, selectedPart); ok {
			return CheckinTarget{
				InjuryID:        injury.ID,
				DayNumber:       nextDayNumber(injury, form.IsSameDayUpdate),
				TouchLastLogged: true,
			}, nil
		}
	}

	if title == "" {
		if selectedPart != "" {
			title = selectedPart + " Pain"
		} else {
			title = "New Injury"
		}
	}
	return CheckinTarget{Create: true, CreateTitle: title, DayNumber: 1}, nil
}

func findInjury(injuries []models.Injury, injuryID string) (models.Injury, bool) {
	for _, injury := range injuries {
		if injury.ID == injuryID {
			return injury, true
		}
	}
	return models.Injury{}, false
}

func findInjuryByPart(injuries []models.Injury, bodyPartID string) (models.Injury, bool) {
	for _, injury := range injuries {
		if injury.BodyPartID == bodyPartID {
			return injury, true
		}
	}
	return models.Injury{}, false
}

func nextDayNumber(injury models.Injury, sameDayUpdate bool) int {
	if sameDayUpdate {
		if latest, ok := injury.LatestLog(); ok {
			return latest.DayNumber
		}
	}
	return injury.MaxDay() + 1
}

// NewLog and NewInjury are the write payloads the check-in hands to the
// backend; optional fields stay empty so the backend applies its defaults.
type NewLog struct {
	UserID     string
	BodyPartID string
	PainLevel  int
	Note       string
	ImageURL   string
	InjuryID   string
	DayNumber  int
}

type NewInjury struct {
	UserID     string
	BodyPartID string
	Title      string
}

type CheckinStore interface {
	InsertLog(ctx context.Context, insert NewLog) (models.PainLog, error)
	InsertInjury(ctx context.Context, insert NewInjury) (models.Injury, error)
	UpdateInjury(ctx context.Context, injuryID string, updates map[string]any) error
}

type CheckinService struct {
	store  CheckinStore
	images ImageStore
	logger *zap.Logger
	now    func() time.Time
}

func NewCheckinService(store CheckinStore, images ImageStore, logger *zap.Logger) *CheckinService {
	return &CheckinService{
		store:  store,
		images: images,
		logger: logger,
		now:    time.Now,
	}
}

// Submit persists one check-in. When storeData is false nothing is written
// at all, but the form still resets as if the save had happened. The image
// upload must complete before the log insert because the row embeds the
// public URL; an upload failure aborts the whole submit. The form resets
// only on success so a failed submit keeps the user's input.
func (service *CheckinService) Submit(ctx context.Context, userID string, form *CheckinForm, selectedPart string, injuries []models.Injury, storeData bool) error {
	if form.PainLevel < models.MinPainLevel || form.PainLevel > models.MaxPainLevel {
		return ErrPainLevelOutOfRange
	}

	target, err := ResolveTarget(*form, selectedPart, injuries)
	if err != nil {
		return err
	}

	if !storeData {
		form.Reset()
		return nil
	}

	imageURL := ""
	if form.Image != nil {
		objectKey := imageObjectKey(userID, form.Image.FileName, service.now())
		if err := service.images.UploadImage(ctx, objectKey, form.Image.Content, form.Image.ContentType); err != nil {
			service.logger.Error("upload check-in image", zap.String("user_id", userID), zap.Error(err))
			return fmt.Errorf("upload image: %w", err)
		}
		imageURL = service.images.PublicImageURL(objectKey)
	}

	injuryID := target.InjuryID
	if target.Create {
		created, err := service.store.InsertInjury(ctx, NewInjury{
			UserID:     userID,
			BodyPartID: selectedPart,
			Title:      target.CreateTitle,
		})
		if err != nil {
			service.logger.Error("create injury", zap.String("user_id", userID), zap.Error(err))
			return ErrCheckinFailed
		}
		injuryID = created.ID
	} else if target.TouchLastLogged {
		updates := map[string]any{"last_logged_at": service.now().UTC()}
		if err := service.store.UpdateInjury(ctx, injuryID, updates); err != nil {
			service.logger.Error("touch injury last_logged_at", zap.String("injury_id", injuryID), zap.Error(err))
			return ErrCheckinFailed
		}
	}

	_, err = service.store.InsertLog(ctx, NewLog{
		UserID:     userID,
		BodyPartID: selectedPart,
		PainLevel:  form.PainLevel,
		Note:       form.Note,
		ImageURL:   imageURL,
		InjuryID:   injuryID,
		DayNumber:  target.DayNumber,
	})
	if err != nil {
		service.logger.Error("insert log", zap.String("injury_id", injuryID), zap.Error(err))
		return ErrCheckinFailed
	}

	form.Reset()
	return nil
}
