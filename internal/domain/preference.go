package domain

import "time"

// CategoryPreference enables or disables a category for a user. Enabled
// preferences drive which categories an ingestion pass fetches when the
// caller does not name categories explicitly.
type CategoryPreference struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user_id"`
	CategoryName string    `json:"category_name"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserVideoInteraction tracks per-user display state for a video. It is not
// part of the classification pipeline; hidden videos are filtered out at
// display time only.
type UserVideoInteraction struct {
	ID              int64     `json:"id"`
	UserID          string    `json:"user_id"`
	VideoExternalID string    `json:"video_external_id"`
	Watched         bool      `json:"watched"`
	Liked           bool      `json:"liked"`
	Hidden          bool      `json:"hidden"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
