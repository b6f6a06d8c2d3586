// Package domain defines the core data model shared across the service.
package domain

import "time"

// VideoRecord represents one video ingested from the external catalog.
// ExternalID is the catalog's stable identifier and the dedup key:
// ingestion upserts on it and never creates a second row for the same video.
type VideoRecord struct {
	ID          int64     `json:"id"`
	ExternalID  string    `json:"external_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`

	ThumbnailURL string    `json:"thumbnail_url"`
	ChannelName  string    `json:"channel_name"`
	PublishedAt  time.Time `json:"published_at"`
	DurationISO  string    `json:"duration_iso"` // compact ISO-8601, e.g. "PT4M13S"
	ViewCount    int64     `json:"view_count"`

	// Category is the user-selected category the video was fetched under.
	Category string `json:"category"`

	// IsScoreFree defaults to true until the classifier has run; a record
	// with a nil Classification is pending and eligible for reclassification.
	IsScoreFree    bool                  `json:"is_score_free"`
	Classification *ClassificationResult `json:"classification,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pending reports whether the record has not been classified yet.
func (v *VideoRecord) Pending() bool {
	return v.Classification == nil
}
