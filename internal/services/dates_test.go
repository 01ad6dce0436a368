package services

import (
	"testing"
	"time"
	_ "time/tzdata"
)

func TestFormatRelativeDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC)

	cases := []struct {
		name  string
		value time.Time
		want  string
	}{
		{"same morning", time.Date(2025, 3, 15, 1, 0, 0, 0, time.UTC), "Today"},
		{"late yesterday", time.Date(2025, 3, 14, 23, 59, 0, 0, time.UTC), "Yesterday"},
		{"two days back", time.Date(2025, 3, 13, 12, 0, 0, 0, time.UTC), "2 days ago"},
		{"six days back", time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC), "6 days ago"},
		{"seven days back", time.Date(2025, 3, 8, 8, 0, 0, 0, time.UTC), "Mar 8, 2025"},
		{"last year", time.Date(2024, 12, 31, 8, 0, 0, 0, time.UTC), "Dec 31, 2024"},
	}
	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			got := FormatRelativeDate(testCase.value, now, time.UTC)
			if got != testCase.want {
				t.Fatalf("FormatRelativeDate(%v) = %q, want %q", testCase.value, got, testCase.want)
			}
		})
	}
}

func TestFormatRelativeDateTruncatesBeforeDiff(t *testing.T) {
	t.Parallel()

	// 00:05 today vs 23:55 yesterday is under an hour apart on the clock but
	// still a day apart on the calendar.
	now := time.Date(2025, 3, 15, 0, 5, 0, 0, time.UTC)
	value := time.Date(2025, 3, 14, 23, 55, 0, 0, time.UTC)
	if got := FormatRelativeDate(value, now, time.UTC); got != "Yesterday" {
		t.Fatalf("got %q, want Yesterday", got)
	}
}

func TestFormatRelativeDateAcrossDSTChange(t *testing.T) {
	t.Parallel()

	location, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// Clocks sprang forward on Mar 9, 2025, making that calendar day 23
	// hours long. The day count must not round it away.
	cases := []struct {
		name  string
		value time.Time
		now   time.Time
		want  string
	}{
		{
			"short day is still yesterday",
			time.Date(2025, 3, 9, 12, 0, 0, 0, location),
			time.Date(2025, 3, 10, 9, 0, 0, 0, location),
			"Yesterday",
		},
		{
			"six days spanning the change",
			time.Date(2025, 3, 8, 12, 0, 0, 0, location),
			time.Date(2025, 3, 14, 9, 0, 0, 0, location),
			"6 days ago",
		},
	}
	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			got := FormatRelativeDate(testCase.value, testCase.now, location)
			if got != testCase.want {
				t.Fatalf("FormatRelativeDate(%v) = %q, want %q", testCase.value, got, testCase.want)
			}
		})
	}
}

func TestDateAtLocationNilFallsBackToUTC(t *testing.T) {
	t.Parallel()

	value := time.Date(2025, 3, 15, 18, 45, 0, 0, time.UTC)
	got := DateAtLocation(value, nil)
	want := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("DateAtLocation = %v, want %v", got, want)
	}
}
