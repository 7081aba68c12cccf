package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bulkcat/internal/models"
	"bulkcat/internal/store"
)

const categoryColumns = `c.id, c.name, c.slug, c.created_at,
	(SELECT COUNT(*) FROM post_categories pc WHERE pc.category_id = c.id)`

func scanCategory(row scanner, cat *models.Category) error {
	return row.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.CreatedAt, &cat.Count)
}

func (s *StoreImpl) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	cat := &models.Category{}
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories c WHERE c.id = ?`, id)
	if err := scanCategory(row, cat); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category by id %d: %w", id, err)
	}
	return cat, nil
}

func (s *StoreImpl) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories c ORDER BY c.name ASC, c.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	cats := []*models.Category{}
	for rows.Next() {
		cat := &models.Category{}
		if err := scanCategory(rows, cat); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		cats = append(cats, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return cats, nil
}
