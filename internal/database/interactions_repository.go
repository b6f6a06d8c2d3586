package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/scorefree/internal/domain"
)

// InteractionsRepository handles per-user video interaction state. The
// pipeline never reads it; the display layer uses it to filter listings.
type InteractionsRepository struct {
	db *sqlx.DB
}

// NewInteractionsRepository creates a new interactions repository.
func NewInteractionsRepository(db *sqlx.DB) *InteractionsRepository {
	return &InteractionsRepository{db: db}
}

// Upsert creates or replaces the interaction state for (user, video).
func (r *InteractionsRepository) Upsert(ctx context.Context, i *domain.UserVideoInteraction) error {
	query := `
		INSERT INTO user_video_interactions (user_id, video_external_id, watched, liked, hidden)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, video_external_id)
		DO UPDATE SET watched = EXCLUDED.watched,
		              liked = EXCLUDED.liked,
		              hidden = EXCLUDED.hidden,
		              updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query, i.UserID, i.VideoExternalID, i.Watched, i.Liked, i.Hidden).
		Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert interaction %s/%s: %w", i.UserID, i.VideoExternalID, err)
	}

	return nil
}
