package emulator

import "time"

// Row types mirror the hosted tables. JSON tags match the wire contract the
// client decodes; gorm tags shape the local SQLite schema.

type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type LogRow struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"not null;index" json:"user_id"`
	BodyPartID string    `json:"body_part_id"`
	PainLevel  int       `gorm:"not null" json:"pain_level"`
	Note       string    `json:"note"`
	ImageURL   string    `json:"image_url"`
	InjuryID   string    `gorm:"index" json:"injury_id"`
	DayNumber  int       `json:"day_number"`
	CreatedAt  time.Time `json:"created_at"`
}

func (LogRow) TableName() string { return "logs" }

type InjuryRow struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	UserID       string    `gorm:"not null;index" json:"user_id"`
	BodyPartID   string    `json:"body_part_id"`
	Title        string    `gorm:"not null" json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	LastLoggedAt time.Time `json:"last_logged_at"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
}

func (InjuryRow) TableName() string { return "injuries" }

type PreferenceRow struct {
	UserID    string    `gorm:"primaryKey" json:"user_id"`
	StoreData bool      `gorm:"not null;default:true" json:"store_data"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PreferenceRow) TableName() string { return "user_preferences" }

// ObjectRow keeps uploaded images inside the same SQLite file so the
// emulator stays a single artifact on disk.
type ObjectRow struct {
	Bucket      string    `gorm:"primaryKey"`
	Key         string    `gorm:"primaryKey"`
	ContentType string    `gorm:"not null"`
	Content     []byte    `gorm:"not null"`
	CreatedAt   time.Time
}

func (ObjectRow) TableName() string { return "storage_objects" }
