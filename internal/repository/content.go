// Package repository persists content items, one table per category.
package repository

import (
	"context"
	"fmt"

	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	"github.com/barjames/funeral-planner/internal/models"
	"github.com/jmoiron/sqlx"
)

// ContentRepository stores items for every category. Table and column names
// come from the category registry, never from request input.
type ContentRepository struct {
	db     *sqlx.DB
	logger infralogger.Logger
}

// NewContentRepository creates a repository over db.
func NewContentRepository(db *sqlx.DB, log infralogger.Logger) *ContentRepository {
	return &ContentRepository{db: db, logger: log}
}

func selectColumns(cat models.Category) string {
	return "id, title, " + cat.Field.Column() + ", created_at, updated_at"
}

// List returns every item in cat, oldest first.
func (r *ContentRepository) List(ctx context.Context, cat models.Category) ([]models.ContentItem, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM %s ORDER BY created_at ASC, id ASC`,
		selectColumns(cat), cat.Table,
	)

	items := make([]models.ContentItem, 0)
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list %s: %w", cat.Key, err)
	}

	return items, nil
}

// Create inserts item. ID and timestamps must already be set.
func (r *ContentRepository) Create(ctx context.Context, cat models.Category, item *models.ContentItem) error {
	query := r.db.Rebind(fmt.Sprintf(
		`INSERT INTO %s (id, title, %s, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		cat.Table, cat.Field.Column(),
	))

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.Title,
		item.Payload(cat),
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert %s: %w", cat.Key, err)
	}

	r.logger.Debug("Content item stored",
		infralogger.String("category", cat.Key),
		infralogger.String("item_id", item.ID),
	)
	return nil
}

// Delete removes the item with id. It reports false when no row matched.
func (r *ContentRepository) Delete(ctx context.Context, cat models.Category, id string) (bool, error) {
	query := r.db.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, cat.Table))

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", cat.Key, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// GetByIDs returns the items among ids that exist, in no particular order.
func (r *ContentRepository) GetByIDs(ctx context.Context, cat models.Category, ids []string) ([]models.ContentItem, error) {
	items := make([]models.ContentItem, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	query, args, err := sqlx.In(
		fmt.Sprintf(`SELECT %s FROM %s WHERE id IN (?)`, selectColumns(cat), cat.Table),
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("build %s lookup: %w", cat.Key, err)
	}

	if selectErr := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); selectErr != nil {
		return nil, fmt.Errorf("get %s by ids: %w", cat.Key, selectErr)
	}

	return items, nil
}

// Ping checks the connection.
func (r *ContentRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
