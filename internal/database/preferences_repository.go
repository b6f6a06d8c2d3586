package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/scorefree/internal/domain"
)

// PreferencesRepository handles database operations for category preferences.
type PreferencesRepository struct {
	db *sqlx.DB
}

// NewPreferencesRepository creates a new preferences repository.
func NewPreferencesRepository(db *sqlx.DB) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

// Upsert creates or updates a preference keyed on (user_id, category_name).
func (r *PreferencesRepository) Upsert(ctx context.Context, p *domain.CategoryPreference) error {
	query := `
		INSERT INTO category_preferences (user_id, category_name, enabled)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, category_name)
		DO UPDATE SET enabled = EXCLUDED.enabled, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query, p.UserID, p.CategoryName, p.Enabled).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert preference %s/%s: %w", p.UserID, p.CategoryName, err)
	}

	return nil
}

// List returns all preferences for a user.
func (r *PreferencesRepository) List(ctx context.Context, userID string) ([]*domain.CategoryPreference, error) {
	query := `
		SELECT id, user_id, category_name, enabled, created_at, updated_at
		FROM category_preferences
		WHERE user_id = $1
		ORDER BY category_name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanPreferences(rows)
}

// ListEnabledCategories returns the category names the user has enabled.
func (r *PreferencesRepository) ListEnabledCategories(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT category_name
		FROM category_preferences
		WHERE user_id = $1 AND enabled
		ORDER BY category_name ASC
	`

	var categories []string
	if err := r.db.SelectContext(ctx, &categories, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list enabled categories: %w", err)
	}

	return categories, nil
}

func scanPreferences(rows *sql.Rows) ([]*domain.CategoryPreference, error) {
	var prefs []*domain.CategoryPreference

	for rows.Next() {
		var p domain.CategoryPreference
		if err := rows.Scan(&p.ID, &p.UserID, &p.CategoryName, &p.Enabled, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		prefs = append(prefs, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating preferences: %w", err)
	}

	return prefs, nil
}
