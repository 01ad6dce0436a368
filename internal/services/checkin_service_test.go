package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/corvusmed/painmap/internal/models"
	"go.uber.org/zap"
)

func TestResolveTargetRequiresIdentity(t *testing.T) {
	t.Parallel()

	_, err := ResolveTarget(CheckinForm{PainLevel: 5}, "", nil)
	if !errors.Is(err, ErrInjuryIdentityMissing) {
		t.Fatalf("err = %v, want ErrInjuryIdentityMissing", err)
	}
}

func TestResolveTargetTrackedInjuryNewDay(t *testing.T) {
	t.Parallel()

	injuries := []models.Injury{{
		ID: "inj-1",
		Logs: []models.PainLog{
			{DayNumber: 1},
			{DayNumber: 4},
		},
	}}
	form := CheckinForm{PainLevel: 5, TrackingInjuryID: "inj-1"}

	target, err := ResolveTarget(form, "", injuries)
	if err != nil {
		t.Fatalf("ResolveTarget: %v", err)
	}
	// Day numbers continue past deletion gaps, never refill them.
	if target.DayNumber != 5 {
		t.Fatalf("DayNumber = %d, want 5", target.DayNumber)
	}
	if target.Create || !target.TouchLastLogged || target.InjuryID != "inj-1" {
		t.Fatalf("unexpected target %+v", target)
	}
}

func TestResolveTargetTrackedInjurySameDay(t *testing.T) {
	t.Parallel()

	injuries := []models.Injury{{
		ID:   "inj-1",
		Logs: []models.PainLog{{DayNumber: 1}, {DayNumber: 3}},
	}}
	form := CheckinForm{PainLevel: 5, TrackingInjuryID: "inj-1", IsSameDayUpdate: true}

	target, err := ResolveTarget(form, "", injuries)
	if err != nil {
		t.Fatalf("ResolveTarget: %v", err)
	}
	if target.DayNumber != 3 {
		t.Fatalf("DayNumber = %d, want 3", target.DayNumber)
	}
}

func TestResolveTargetTrackedInjuryNotLoaded(t *testing.T) {
	t.Parallel()

	form := CheckinForm{PainLevel: 5, TrackingInjuryID: "gone"}
	target, err := ResolveTarget(form, "", nil)
	if err != nil {
		t.Fatalf("ResolveTarget: %v", err)
	}
	if target.DayNumber != 1 || target.TouchLastLogged {
		t.Fatalf("unexpected target %+v", target)
	}
}

func TestResolveTargetReusesInjuryForSelectedPart(t *testing.T) {
	t.Parallel()

	injuries := []models.Injury{{
		ID:         "inj-knee",
		BodyPartID: "left-knee",
		Logs:       []models.PainLog{{DayNumber: 2}},
	}}
	form := CheckinForm{PainLevel: 5}

	target, err := ResolveTarget(form, "left-knee", injuries)
	if err != nil {
		t.Fatalf("ResolveTarget: %v", err)
	}
	if target.InjuryID != "inj-knee" || target.DayNumber != 3 || !target.TouchLastLogged {
		t.Fatalf("unexpected target %+v", target)
	}
}

func TestResolveTargetCreatesNewInjury(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		form         CheckinForm
		selectedPart string
		wantTitle    string
	}{
		{"typed title wins", CheckinForm{PainLevel: 5, InjuryTitle: "  Runner's Knee  "}, "left-knee", "Runner's Knee"},
		{"part fallback", CheckinForm{PainLevel: 5}, "left-knee", "left-knee Pain"},
		{"typed title without part", CheckinForm{PainLevel: 5, InjuryTitle: "Neck Strain"}, "", "Neck Strain"},
	}
	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			target, err := ResolveTarget(testCase.form, testCase.selectedPart, nil)
			if err != nil {
				t.Fatalf("ResolveTarget: %v", err)
			}
			if !target.Create || target.DayNumber != 1 {
				t.Fatalf("unexpected target %+v", target)
			}
			if target.CreateTitle != testCase.wantTitle {
				t.Fatalf("CreateTitle = %q, want %q", target.CreateTitle, testCase.wantTitle)
			}
		})
	}
}

type fakeCheckinStore struct {
	insertedLogs     []NewLog
	insertedInjuries []NewInjury
	touched          map[string]map[string]any

	insertLogErr    error
	insertInjuryErr error
}

func (store *fakeCheckinStore) InsertLog(_ context.Context, insert NewLog) (models.PainLog, error) {
	if store.insertLogErr != nil {
		return models.PainLog{}, store.insertLogErr
	}
	store.insertedLogs = append(store.insertedLogs, insert)
	return models.PainLog{ID: "log-1", InjuryID: insert.InjuryID, DayNumber: insert.DayNumber}, nil
}

func (store *fakeCheckinStore) InsertInjury(_ context.Context, insert NewInjury) (models.Injury, error) {
	if store.insertInjuryErr != nil {
		return models.Injury{}, store.insertInjuryErr
	}
	store.insertedInjuries = append(store.insertedInjuries, insert)
	return models.Injury{ID: "inj-new", Title: insert.Title}, nil
}

func (store *fakeCheckinStore) UpdateInjury(_ context.Context, injuryID string, updates map[string]any) error {
	if store.touched == nil {
		store.touched = map[string]map[string]any{}
	}
	store.touched[injuryID] = updates
	return nil
}

type fakeImageStore struct {
	uploads   map[string][]byte
	removed   []string
	uploadErr error
}

func (store *fakeImageStore) UploadImage(_ context.Context, objectKey string, content []byte, _ string) error {
	if store.uploadErr != nil {
		return store.uploadErr
	}
	if store.uploads == nil {
		store.uploads = map[string][]byte{}
	}
	store.uploads[objectKey] = content
	return nil
}

func (store *fakeImageStore) PublicImageURL(objectKey string) string {
	return "https://backend.test/storage/v1/object/public/pain-images/" + objectKey
}

func (store *fakeImageStore) RemoveImage(_ context.Context, objectKey string) error {
	store.removed = append(store.removed, objectKey)
	return nil
}

func newCheckinServiceForTest(store *fakeCheckinStore, images *fakeImageStore) *CheckinService {
	service := NewCheckinService(store, images, zap.NewNop())
	service.now = func() time.Time { return time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC) }
	return service
}

func TestSubmitRejectsOutOfRangePainLevel(t *testing.T) {
	t.Parallel()

	store := &fakeCheckinStore{}
	service := newCheckinServiceForTest(store, &fakeImageStore{})

	for _, level := range []int{0, 11, -1} {
		form := NewCheckinForm()
		form.PainLevel = level
		form.InjuryTitle = "Shoulder"
		err := service.Submit(context.Background(), "user-1", &form, "", nil, true)
		if !errors.Is(err, ErrPainLevelOutOfRange) {
			t.Fatalf("level %d: err = %v, want ErrPainLevelOutOfRange", level, err)
		}
	}
	if len(store.insertedLogs) != 0 {
		t.Fatal("invalid submissions reached the store")
	}
}

func TestSubmitStoreDataOffWritesNothing(t *testing.T) {
	t.Parallel()

	store := &fakeCheckinStore{}
	images := &fakeImageStore{}
	service := newCheckinServiceForTest(store, images)

	form := NewCheckinForm()
	form.PainLevel = 7
	form.Note = "rough night"
	form.InjuryTitle = "Shoulder"
	form.Image = &ImageUpload{FileName: "pic.jpg", Content: []byte("jpeg")}

	if err := service.Submit(context.Background(), "user-1", &form, "", nil, false); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(store.insertedLogs) != 0 || len(store.insertedInjuries) != 0 || len(images.uploads) != 0 {
		t.Fatal("storeData=false still wrote data")
	}
	if form.PainLevel != 5 || form.Note != "" || form.Image != nil {
		t.Fatalf("form did not reset: %+v", form)
	}
}

func TestSubmitCreatesInjuryAndFirstLog(t *testing.T) {
	t.Parallel()

	store := &fakeCheckinStore{}
	service := newCheckinServiceForTest(store, &fakeImageStore{})

	form := NewCheckinForm()
	form.PainLevel = 6
	form.Note = "after practice"
	form.InjuryTitle = "Sprained Ankle"

	if err := service.Submit(context.Background(), "user-1", &form, "right-ankle", nil, true); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if len(store.insertedInjuries) != 1 {
		t.Fatalf("injuries inserted = %d, want 1", len(store.insertedInjuries))
	}
	if store.insertedInjuries[0].Title != "Sprained Ankle" {
		t.Fatalf("injury title = %q", store.insertedInjuries[0].Title)
	}
	if len(store.insertedLogs) != 1 {
		t.Fatalf("logs inserted = %d, want 1", len(store.insertedLogs))
	}
	entry := store.insertedLogs[0]
	if entry.InjuryID != "inj-new" || entry.DayNumber != 1 || entry.PainLevel != 6 {
		t.Fatalf("unexpected log %+v", entry)
	}
	if len(store.touched) != 0 {
		t.Fatal("new injury must not get a last_logged_at touch")
	}
	if form.Note != "" {
		t.Fatal("form did not reset after success")
	}
}

func TestSubmitContinuesInjuryAndTouchesIt(t *testing.T) {
	t.Parallel()

	store := &fakeCheckinStore{}
	service := newCheckinServiceForTest(store, &fakeImageStore{})

	injuries := []models.Injury{{
		ID:   "inj-1",
		Logs: []models.PainLog{{DayNumber: 1}, {DayNumber: 2}},
	}}
	form := NewCheckinForm()
	form.PainLevel = 4
	form.TrackingInjuryID = "inj-1"

	if err := service.Submit(context.Background(), "user-1", &form, "", injuries, true); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, ok := store.touched["inj-1"]; !ok {
		t.Fatal("continued injury was not touched")
	}
	if len(store.insertedLogs) != 1 || store.insertedLogs[0].DayNumber != 3 {
		t.Fatalf("unexpected logs %+v", store.insertedLogs)
	}
}

func TestSubmitUploadsImageBeforeInsert(t *testing.T) {
	t.Parallel()

	store := &fakeCheckinStore{}
	images := &fakeImageStore{}
	service := newCheckinServiceForTest(store, images)

	form := NewCheckinForm()
	form.PainLevel = 5
	form.InjuryTitle = "Shoulder"
	form.Image = &ImageUpload{FileName: "shoulder.png", Content: []byte("png"), ContentType: "image/png"}

	if err := service.Submit(context.Background(), "user-1", &form, "", nil, true); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(images.uploads) != 1 {
		t.Fatalf("uploads = %d, want 1", len(images.uploads))
	}
	if store.insertedLogs[0].ImageURL == "" {
		t.Fatal("log row missing the public image URL")
	}
}

func TestSubmitAbortsWhenImageUploadFails(t *testing.T) {
	t.Parallel()

	store := &fakeCheckinStore{}
	images := &fakeImageStore{uploadErr: errors.New("bucket unavailable")}
	service := newCheckinServiceForTest(store, images)

	form := NewCheckinForm()
	form.PainLevel = 5
	form.Note = "keep me"
	form.InjuryTitle = "Shoulder"
	form.Image = &ImageUpload{FileName: "pic.jpg", Content: []byte("jpeg")}

	err := service.Submit(context.Background(), "user-1", &form, "", nil, true)
	if err == nil {
		t.Fatal("expected upload failure to abort the submit")
	}
	if len(store.insertedLogs) != 0 || len(store.insertedInjuries) != 0 {
		t.Fatal("rows written despite upload failure")
	}
	if form.Note != "keep me" {
		t.Fatal("failed submit must keep the user's input")
	}
}

func TestSubmitKeepsFormWhenInsertFails(t *testing.T) {
	t.Parallel()

	store := &fakeCheckinStore{insertLogErr: errors.New("backend down")}
	service := newCheckinServiceForTest(store, &fakeImageStore{})

	form := NewCheckinForm()
	form.PainLevel = 8
	form.Note = "keep me"
	form.InjuryTitle = "Shoulder"

	err := service.Submit(context.Background(), "user-1", &form, "", nil, true)
	if !errors.Is(err, ErrCheckinFailed) {
		t.Fatalf("err = %v, want ErrCheckinFailed", err)
	}
	if form.Note != "keep me" || form.PainLevel != 8 {
		t.Fatalf("form reset on failure: %+v", form)
	}
}
