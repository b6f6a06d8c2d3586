package api

import (
	"github.com/jonesrussell/scorefree/internal/catalog"
	"github.com/jonesrussell/scorefree/internal/domain"
)

// VideoResponse is the display shape of a stored video. Duration and views
// are pre-formatted so clients render them verbatim.
type VideoResponse struct {
	ExternalID   string `json:"external_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
	ChannelName  string `json:"channel_name"`
	PublishedAt  string `json:"published_at"`
	Duration     string `json:"duration"`
	Views        string `json:"views"`
	Category     string `json:"category"`
	IsScoreFree  bool   `json:"is_score_free"`

	Classification *domain.ClassificationResult `json:"classification,omitempty"`
}

// VideosListResponse wraps a video listing.
type VideosListResponse struct {
	Videos []VideoResponse `json:"videos"`
	Total  int             `json:"total"`
}

// PreferencesListResponse wraps a preference listing.
type PreferencesListResponse struct {
	Preferences []*domain.CategoryPreference `json:"preferences"`
	Total       int                          `json:"total"`
}

func toVideoResponse(v *domain.VideoRecord) VideoResponse {
	return VideoResponse{
		ExternalID:   v.ExternalID,
		Title:        v.Title,
		Description:  v.Description,
		ThumbnailURL: v.ThumbnailURL,
		ChannelName:  v.ChannelName,
		PublishedAt:  v.PublishedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Duration:     catalog.FormatDuration(v.DurationISO),
		Views:        catalog.FormatViewCount(v.ViewCount),
		Category:     v.Category,
		IsScoreFree:  v.IsScoreFree,

		Classification: v.Classification,
	}
}
