package models

import "time"

// UserPreference is the single per-user settings row. StoreData gates whether
// new check-ins are persisted at all; it defaults to true when no row exists.
type UserPreference struct {
	UserID    string    `json:"user_id"`
	StoreData bool      `json:"store_data"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
