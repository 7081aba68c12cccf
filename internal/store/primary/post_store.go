package primary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bulkcat/internal/models"
	"bulkcat/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- Post Management ---

const postColumns = `p.id, p.title, p.post_type, p.status, COALESCE(p.author_id, 0),
	COALESCE(NULLIF(u.display_name, ''), u.login, ''),
	p.published_at, p.created_at, p.updated_at`

func scanPost(row pgx.Row, dest *models.Post) error {
	return row.Scan(
		&dest.ID, &dest.Title, &dest.Type, &dest.Status, &dest.AuthorID,
		&dest.AuthorName, &dest.PublishedAt, &dest.CreatedAt, &dest.UpdatedAt,
	)
}

func (s *StoreImpl) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts p
		LEFT JOIN users u ON u.id = p.author_id
		WHERE p.id = $1`
	post := &models.Post{}
	if err := scanPost(s.db.QueryRow(ctx, query, id), post); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post by id %d: %w", id, err)
	}
	return post, nil
}

// buildPostWhere renders the filter part of q, numbering placeholders from 1.
func buildPostWhere(q store.PostQuery) (string, []interface{}) {
	var conds []string
	args := []interface{}{}
	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.PostType != "" {
		conds = append(conds, "p.post_type = "+next(q.PostType))
	}
	if q.Status != "" {
		conds = append(conds, "p.status = "+next(q.Status))
	}
	if q.IncludeCategory > 0 {
		conds = append(conds, "EXISTS (SELECT 1 FROM post_categories pc WHERE pc.post_id = p.id AND pc.category_id = "+next(q.IncludeCategory)+")")
	}
	if q.ExcludeCategory > 0 {
		conds = append(conds, "NOT EXISTS (SELECT 1 FROM post_categories pc WHERE pc.post_id = p.id AND pc.category_id = "+next(q.ExcludeCategory)+")")
	}
	for _, term := range store.SearchTerms(q.Search) {
		conds = append(conds, "p.title ILIKE "+next(store.LikePattern(term))+` ESCAPE '\'`)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *StoreImpl) ListPosts(ctx context.Context, q store.PostQuery) ([]*models.Post, int, error) {
	whereClause, args := buildPostWhere(q)

	var total int
	countQuery := `SELECT COUNT(*) FROM posts p` + whereClause
	if err := s.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	limitClause := fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	fullQuery := `SELECT ` + postColumns + `
		FROM posts p
		LEFT JOIN users u ON u.id = p.author_id` +
		whereClause +
		` ORDER BY p.published_at DESC, p.id DESC` +
		limitClause

	rows, err := s.db.Query(ctx, fullQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		post := &models.Post{}
		if err := scanPost(rows, post); err != nil {
			return nil, 0, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating post rows: %w", err)
	}
	return posts, total, nil
}

// GetCategoriesForPosts retrieves categories for multiple posts in one query.
// Every requested post id has an entry, possibly empty.
func (s *StoreImpl) GetCategoriesForPosts(ctx context.Context, postIDs []int64) (map[int64][]*models.Category, error) {
	if len(postIDs) == 0 {
		return map[int64][]*models.Category{}, nil
	}

	query := `
		SELECT pc.post_id, c.id, c.name, c.slug, c.created_at
		FROM categories c
		JOIN post_categories pc ON c.id = pc.category_id
		WHERE pc.post_id = ANY($1)
		ORDER BY pc.post_id, c.name ASC`

	rows, err := s.db.Query(ctx, query, postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories for posts: %w", err)
	}
	defer rows.Close()

	byPost := make(map[int64][]*models.Category, len(postIDs))
	for rows.Next() {
		var postID int64
		cat := &models.Category{}
		if err := rows.Scan(&postID, &cat.ID, &cat.Name, &cat.Slug, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post category row: %w", err)
		}
		byPost[postID] = append(byPost[postID], cat)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post category rows: %w", err)
	}

	for _, id := range postIDs {
		if _, exists := byPost[id]; !exists {
			byPost[id] = []*models.Category{}
		}
	}
	return byPost, nil
}

func (s *StoreImpl) SetPostCategories(ctx context.Context, postID int64, categoryIDs []int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for post %d: %w", postID, err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE posts SET updated_at = $1 WHERE id = $2`, time.Now().UTC(), postID)
	if err != nil {
		return fmt.Errorf("failed to touch post %d: %w", postID, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM post_categories WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("failed to clear categories of post %d: %w", postID, err)
	}
	for _, categoryID := range categoryIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO post_categories (post_id, category_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, postID, categoryID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
				return fmt.Errorf("category %d does not exist: %w", categoryID, store.ErrForeignKeyViolation)
			}
			return fmt.Errorf("failed to add category %d to post %d: %w", categoryID, postID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit categories of post %d: %w", postID, err)
	}
	return nil
}

var _ store.PostStore = (*StoreImpl)(nil)
