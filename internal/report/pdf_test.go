package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/corvusmed/painmap/internal/models"
)

type fakeFetcher struct {
	content []byte
	err     error
	calls   int
}

func (fetcher *fakeFetcher) DownloadImage(_ context.Context, _ string) ([]byte, string, error) {
	fetcher.calls++
	if fetcher.err != nil {
		return nil, "", fetcher.err
	}
	return fetcher.content, "image/png", nil
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buffer bytes.Buffer
	if err := png.Encode(&buffer, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buffer.Bytes()
}

// corruptPNG keeps a valid signature and IHDR chunk but replaces the body,
// so a header-only probe accepts it while a full decode fails.
func corruptPNG(t *testing.T) []byte {
	t.Helper()
	encoded := tinyPNG(t)
	// 8 signature bytes plus the 25-byte IHDR chunk.
	header := encoded[:33]
	return append(append([]byte{}, header...), []byte("garbage body")...)
}

func sampleInjury(logCount int) models.Injury {
	injury := models.Injury{
		Title:        "Sprained Ankle",
		BodyPartID:   "right-ankle",
		CreatedAt:    time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		LastLoggedAt: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	for i := 0; i < logCount; i++ {
		injury.Logs = append(injury.Logs, models.PainLog{
			ID:        fmt.Sprintf("log-%d", i+1),
			DayNumber: i + 1,
			PainLevel: (i % 10) + 1,
			Note:      "steady progress",
			CreatedAt: injury.CreatedAt.AddDate(0, 0, i),
		})
	}
	return injury
}

func TestWritePDFProducesDocument(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	if err := WritePDF(context.Background(), &output, sampleInjury(3), nil, now, time.UTC); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if output.Len() == 0 {
		t.Fatal("empty PDF output")
	}
	if !bytes.HasPrefix(output.Bytes(), []byte("%PDF")) {
		t.Fatal("output does not start with the PDF magic")
	}
}

func TestWritePDFLongTimelinePaginates(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	if err := WritePDF(context.Background(), &output, sampleInjury(40), nil, now, time.UTC); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	// A 40-entry timeline cannot fit one A4 page. Page objects show up as
	// "/Type /Page"; the pages root adds one "/Type /Pages" match.
	raw := output.Bytes()
	pages := bytes.Count(raw, []byte("/Type /Page")) - bytes.Count(raw, []byte("/Type /Pages"))
	if pages < 2 {
		t.Fatalf("pages = %d, want at least 2", pages)
	}
}

func TestWritePDFInlinesPhotos(t *testing.T) {
	t.Parallel()

	injury := sampleInjury(2)
	injury.Logs[0].ImageURL = "https://backend.test/storage/v1/object/public/pain-images/user-1/1.png"

	fetcher := &fakeFetcher{content: tinyPNG(t)}
	var output bytes.Buffer
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	if err := WritePDF(context.Background(), &output, injury, fetcher, now, time.UTC); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetch calls = %d, want 1", fetcher.calls)
	}
}

func TestWritePDFDropsBrokenPhotos(t *testing.T) {
	t.Parallel()

	injury := sampleInjury(2)
	injury.Logs[0].ImageURL = "https://backend.test/storage/v1/object/public/pain-images/user-1/1.png"
	injury.Logs[1].ImageURL = "https://backend.test/storage/v1/object/public/pain-images/user-1/2.png"

	cases := []struct {
		name    string
		fetcher *fakeFetcher
	}{
		{"download failure", &fakeFetcher{err: errors.New("object gone")}},
		{"undecodable bytes", &fakeFetcher{content: []byte("not an image")}},
		{"valid header, corrupt body", &fakeFetcher{content: corruptPNG(t)}},
	}
	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			var output bytes.Buffer
			now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
			err := WritePDF(context.Background(), &output, injury, testCase.fetcher, now, time.UTC)
			if err != nil {
				t.Fatalf("WritePDF: %v", err)
			}
			if output.Len() == 0 {
				t.Fatal("empty PDF output")
			}
		})
	}
}
