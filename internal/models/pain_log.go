package models

import "time"

const (
	MinPainLevel = 1
	MaxPainLevel = 10
)

const (
	BandMild     = "mild"
	BandModerate = "moderate"
	BandSevere   = "severe"
)

type PainLog struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	BodyPartID string    `json:"body_part_id"`
	PainLevel  int       `json:"pain_level"`
	Note       string    `json:"note"`
	ImageURL   string    `json:"image_url"`
	InjuryID   string    `json:"injury_id"`
	DayNumber  int       `json:"day_number"`
	CreatedAt  time.Time `json:"created_at"`
}

// PainBand buckets a 1-10 pain level into the display band. Boundaries are
// inclusive: 1-3 mild, 4-7 moderate, 8-10 severe.
func PainBand(level int) string {
	switch {
	case level >= 1 && level <= 3:
		return BandMild
	case level >= 4 && level <= 7:
		return BandModerate
	default:
		return BandSevere
	}
}
