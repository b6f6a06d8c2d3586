package domain

import "time"

// ClassificationResult is the spoiler-risk verdict for a video's metadata.
// It is stored alongside the video and must round-trip losslessly through
// the store.
type ClassificationResult struct {
	// IsScoreFree is true when the metadata does not appear to reveal an
	// outcome or final score.
	IsScoreFree bool `json:"is_score_free"`

	// Confidence is always in [0, 100].
	Confidence int `json:"confidence"`

	// FlaggedTerms lists the deduplicated terms and numeric-score matches
	// that contributed to the verdict. Advisory, not authoritative.
	FlaggedTerms []string `json:"flagged_terms"`

	// Reasoning is a templated human-readable explanation of the verdict.
	Reasoning string `json:"reasoning"`

	ClassifiedAt time.Time `json:"classified_at"`
}

// CategoryError records a per-category failure during an ingestion pass.
type CategoryError struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// IngestionReport summarizes one ingestion pass. Found counts fetched
// candidates before dedup; Stored counts rows actually inserted.
type IngestionReport struct {
	Found  int             `json:"found"`
	Stored int             `json:"stored"`
	Errors []CategoryError `json:"errors"`
}

// ReclassificationReport summarizes one reclassification batch.
type ReclassificationReport struct {
	Updated        int `json:"updated"`
	Failed         int `json:"failed"`
	ScoreFreeCount int `json:"score_free_count"`
}
