package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/scorefree/internal/domain"
)

// VideoRepository handles database operations for video records.
type VideoRepository struct {
	db *sqlx.DB
}

// NewVideoRepository creates a new video repository.
func NewVideoRepository(db *sqlx.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Upsert inserts a video keyed on external_id, ignoring the insert entirely
// when a row already exists. An existing row's classification is therefore
// never overwritten by a re-fetch. Returns true when a new row was stored.
func (r *VideoRepository) Upsert(ctx context.Context, v *domain.VideoRecord) (bool, error) {
	classification, err := marshalClassification(v.Classification)
	if err != nil {
		return false, err
	}

	query := `
		INSERT INTO videos (external_id, title, description, thumbnail_url, channel_name,
		                    published_at, duration_iso, view_count, category, is_score_free, classification)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (external_id) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err = r.db.QueryRowContext(
		ctx,
		query,
		v.ExternalID,
		v.Title,
		v.Description,
		v.ThumbnailURL,
		v.ChannelName,
		v.PublishedAt,
		v.DurationISO,
		v.ViewCount,
		v.Category,
		v.IsScoreFree,
		classification,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Conflict: the video is already stored.
			return false, nil
		}
		return false, fmt.Errorf("failed to upsert video %s: %w", v.ExternalID, err)
	}

	return true, nil
}

// ListPending returns up to limit records that have not been classified yet,
// oldest first.
func (r *VideoRepository) ListPending(ctx context.Context, limit int) ([]*domain.VideoRecord, error) {
	query := videoSelectColumns + `
		FROM videos
		WHERE classification IS NULL
		ORDER BY created_at ASC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending videos: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanVideos(rows)
}

// UpdateClassification persists the verdict and the full result together so
// readers never observe one updated and the other stale.
func (r *VideoRepository) UpdateClassification(ctx context.Context, externalID string, isScoreFree bool, result *domain.ClassificationResult) error {
	classification, err := marshalClassification(result)
	if err != nil {
		return err
	}

	query := `
		UPDATE videos
		SET is_score_free = $2, classification = $3, updated_at = NOW()
		WHERE external_id = $1
	`

	res, err := r.db.ExecContext(ctx, query, externalID, isScoreFree, classification)
	if err != nil {
		return fmt.Errorf("failed to update classification for %s: %w", externalID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("video not found: %s", externalID)
	}

	return nil
}

// VideoFilter narrows a listing query. Zero values mean "no filter".
type VideoFilter struct {
	Category      string
	ScoreFreeOnly bool
	// MinConfidence applies only together with ScoreFreeOnly.
	MinConfidence int
	// HideForUser excludes videos the given user has hidden.
	HideForUser string
	Limit       int
}

const defaultListLimit = 50

// List returns stored videos matching the filter, newest publication first.
func (r *VideoRepository) List(ctx context.Context, filter VideoFilter) ([]*domain.VideoRecord, error) {
	query := videoSelectColumns + " FROM videos"

	var clauses []string
	var args []any

	if filter.Category != "" {
		args = append(args, filter.Category)
		clauses = append(clauses, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.ScoreFreeOnly {
		clauses = append(clauses, "is_score_free = TRUE", "classification IS NOT NULL")
		if filter.MinConfidence > 0 {
			args = append(args, filter.MinConfidence)
			clauses = append(clauses, fmt.Sprintf("(classification->>'confidence')::int >= $%d", len(args)))
		}
	}
	if filter.HideForUser != "" {
		args = append(args, filter.HideForUser)
		clauses = append(clauses, fmt.Sprintf(`NOT EXISTS (
			SELECT 1 FROM user_video_interactions i
			WHERE i.video_external_id = videos.external_id
			  AND i.user_id = $%d AND i.hidden
		)`, len(args)))
	}

	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY published_at DESC LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanVideos(rows)
}

// CountPending returns the number of unclassified records.
func (r *VideoRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos WHERE classification IS NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending videos: %w", err)
	}
	return count, nil
}

const videoSelectColumns = `
	SELECT id, external_id, title, description, thumbnail_url, channel_name,
	       published_at, duration_iso, view_count, category, is_score_free,
	       classification, created_at, updated_at
`

func scanVideos(rows *sql.Rows) ([]*domain.VideoRecord, error) {
	var videos []*domain.VideoRecord

	for rows.Next() {
		var v domain.VideoRecord
		var raw []byte
		var publishedAt, createdAt, updatedAt time.Time

		if err := rows.Scan(
			&v.ID,
			&v.ExternalID,
			&v.Title,
			&v.Description,
			&v.ThumbnailURL,
			&v.ChannelName,
			&publishedAt,
			&v.DurationISO,
			&v.ViewCount,
			&v.Category,
			&v.IsScoreFree,
			&raw,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}

		v.PublishedAt = publishedAt
		v.CreatedAt = createdAt
		v.UpdatedAt = updatedAt

		if len(raw) > 0 {
			var result domain.ClassificationResult
			if err := json.Unmarshal(raw, &result); err != nil {
				return nil, fmt.Errorf("failed to decode classification for %s: %w", v.ExternalID, err)
			}
			v.Classification = &result
		}

		videos = append(videos, &v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}

	return videos, nil
}

// marshalClassification encodes a result for the jsonb column; nil stays
// NULL so the pending predicate keeps working.
func marshalClassification(result *domain.ClassificationResult) (any, error) {
	if result == nil {
		return nil, nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode classification: %w", err)
	}
	return data, nil
}
