package models

import (
	"math"
	"time"
)

// Injury groups the logs the user records against one body area. Logs live in
// their own table linked by InjuryID; the Logs slice is a client-side join,
// ordered by day number ascending, and never crosses the wire.
type Injury struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	BodyPartID   string    `json:"body_part_id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	LastLoggedAt time.Time `json:"last_logged_at"`
	IsActive     bool      `json:"is_active"`

	Logs []PainLog `json:"-"`
}

// MaxDay is the highest day number across the injury's logs, 0 when empty.
// Day numbers are not gap-free: deleting a log leaves a hole.
func (injury Injury) MaxDay() int {
	maxDay := 0
	for _, entry := range injury.Logs {
		if entry.DayNumber > maxDay {
			maxDay = entry.DayNumber
		}
	}
	return maxDay
}

// AveragePain is the mean pain level rounded to the nearest integer for badge
// display, 0 when the injury has no logs.
func (injury Injury) AveragePain() int {
	if len(injury.Logs) == 0 {
		return 0
	}
	sum := 0
	for _, entry := range injury.Logs {
		sum += entry.PainLevel
	}
	return int(math.Round(float64(sum) / float64(len(injury.Logs))))
}

// LatestLog is the last element of the day-ordered sequence.
func (injury Injury) LatestLog() (PainLog, bool) {
	if len(injury.Logs) == 0 {
		return PainLog{}, false
	}
	return injury.Logs[len(injury.Logs)-1], true
}
