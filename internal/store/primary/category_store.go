package primary

import (
	"context"
	"errors"
	"fmt"

	"bulkcat/internal/models"
	"bulkcat/internal/store"

	"github.com/jackc/pgx/v5"
)

// --- Category Management ---

func (s *StoreImpl) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.created_at,
		       (SELECT COUNT(*) FROM post_categories pc WHERE pc.category_id = c.id)
		FROM categories c
		WHERE c.id = $1`
	cat := &models.Category{}
	err := s.db.QueryRow(ctx, query, id).Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.CreatedAt, &cat.Count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category by id %d: %w", id, err)
	}
	return cat, nil
}

// ListCategories returns every category, empty ones included, ordered by name.
func (s *StoreImpl) ListCategories(ctx context.Context) ([]*models.Category, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.created_at, COUNT(pc.post_id)
		FROM categories c
		LEFT JOIN post_categories pc ON pc.category_id = c.id
		GROUP BY c.id, c.name, c.slug, c.created_at
		ORDER BY c.name ASC, c.id ASC`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	cats := []*models.Category{}
	for rows.Next() {
		cat := &models.Category{}
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.CreatedAt, &cat.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		cats = append(cats, cat)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return cats, nil
}

var _ store.CategoryStore = (*StoreImpl)(nil)
