// Package repository persists scrape sources in PostgreSQL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/domain"
)

// ErrSourceNotFound is returned when no row matches the requested id.
var ErrSourceNotFound = errors.New("source not found")

// sourceSelectColumns lists columns for SELECT queries on scrape_sources.
const sourceSelectColumns = `id, name, kind, feed_url, query, enabled, created_at, updated_at`

// SourceRepository handles database operations for scrape sources.
type SourceRepository struct {
	db *sqlx.DB
}

// NewSourceRepository creates a new source repository.
func NewSourceRepository(db *sqlx.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// List returns every source, oldest first.
func (r *SourceRepository) List(ctx context.Context) ([]domain.SourceConfig, error) {
	query := `SELECT ` + sourceSelectColumns + ` FROM scrape_sources ORDER BY created_at ASC, id ASC`

	var list []domain.SourceConfig
	if err := r.db.SelectContext(ctx, &list, query); err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}

	if list == nil {
		list = []domain.SourceConfig{}
	}

	return list, nil
}

// ListSources lets the repository act as the scrape service's source provider.
func (r *SourceRepository) ListSources(ctx context.Context) ([]domain.SourceConfig, error) {
	return r.List(ctx)
}

// GetByID returns one source.
func (r *SourceRepository) GetByID(ctx context.Context, id string) (*domain.SourceConfig, error) {
	query := `SELECT ` + sourceSelectColumns + ` FROM scrape_sources WHERE id = $1`

	var src domain.SourceConfig
	if err := r.db.GetContext(ctx, &src, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSourceNotFound
		}
		return nil, fmt.Errorf("failed to get source %s: %w", id, err)
	}

	return &src, nil
}

// Create inserts src, assigning an id when empty and stamping both timestamps.
func (r *SourceRepository) Create(ctx context.Context, src *domain.SourceConfig) error {
	if src.ID == "" {
		src.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	src.CreatedAt = now
	src.UpdatedAt = now

	query := `
		INSERT INTO scrape_sources (id, name, kind, feed_url, query, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		src.ID, src.Name, string(src.Kind), src.FeedURL, src.Query, src.Enabled, src.CreatedAt, src.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create source: %w", err)
	}

	return nil
}

// Update overwrites the mutable fields of an existing source.
func (r *SourceRepository) Update(ctx context.Context, src *domain.SourceConfig) error {
	src.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE scrape_sources
		SET name = $2, kind = $3, feed_url = $4, query = $5, enabled = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		src.ID, src.Name, string(src.Kind), src.FeedURL, src.Query, src.Enabled, src.UpdatedAt,
	)
	return execRequireRows(result, err, ErrSourceNotFound)
}

// Delete removes a source.
func (r *SourceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM scrape_sources WHERE id = $1`, id)
	return execRequireRows(result, err, ErrSourceNotFound)
}

// Toggle flips a source's enabled flag and returns the updated row.
func (r *SourceRepository) Toggle(ctx context.Context, id string) (*domain.SourceConfig, error) {
	query := `
		UPDATE scrape_sources
		SET enabled = NOT enabled, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + sourceSelectColumns

	var src domain.SourceConfig
	if err := r.db.GetContext(ctx, &src, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSourceNotFound
		}
		return nil, fmt.Errorf("failed to toggle source %s: %w", id, err)
	}

	return &src, nil
}

// Seed inserts list when the table is empty. It reports how many rows were written.
func (r *SourceRepository) Seed(ctx context.Context, list []domain.SourceConfig) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM scrape_sources`); err != nil {
		return 0, fmt.Errorf("failed to count sources: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	for i := range list {
		if err := r.Create(ctx, &list[i]); err != nil {
			return i, err
		}
	}

	return len(list), nil
}
