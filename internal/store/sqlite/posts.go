package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"bulkcat/internal/models"
	"bulkcat/internal/store"
)

const postColumns = `p.id, p.title, p.post_type, p.status, IFNULL(p.author_id, 0),
	IFNULL(NULLIF(u.display_name, ''), IFNULL(u.login, '')),
	p.published_at, p.created_at, p.updated_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row scanner, dest *models.Post) error {
	return row.Scan(
		&dest.ID, &dest.Title, &dest.Type, &dest.Status, &dest.AuthorID,
		&dest.AuthorName, &dest.PublishedAt, &dest.CreatedAt, &dest.UpdatedAt,
	)
}

func (s *StoreImpl) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts p
		LEFT JOIN users u ON u.id = p.author_id
		WHERE p.id = ?`
	post := &models.Post{}
	if err := scanPost(s.db.QueryRowContext(ctx, query, id), post); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post by id %d: %w", id, err)
	}
	return post, nil
}

func buildPostWhere(q store.PostQuery) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if q.PostType != "" {
		conds = append(conds, "p.post_type = ?")
		args = append(args, q.PostType)
	}
	if q.Status != "" {
		conds = append(conds, "p.status = ?")
		args = append(args, q.Status)
	}
	if q.IncludeCategory > 0 {
		conds = append(conds, "EXISTS (SELECT 1 FROM post_categories pc WHERE pc.post_id = p.id AND pc.category_id = ?)")
		args = append(args, q.IncludeCategory)
	}
	if q.ExcludeCategory > 0 {
		conds = append(conds, "NOT EXISTS (SELECT 1 FROM post_categories pc WHERE pc.post_id = p.id AND pc.category_id = ?)")
		args = append(args, q.ExcludeCategory)
	}
	for _, term := range store.SearchTerms(q.Search) {
		// LIKE is case-insensitive for ASCII in SQLite
		conds = append(conds, `p.title LIKE ? ESCAPE '\'`)
		args = append(args, store.LikePattern(term))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *StoreImpl) ListPosts(ctx context.Context, q store.PostQuery) ([]*models.Post, int, error) {
	whereClause, args := buildPostWhere(q)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts p`+whereClause, args...).Scan(&total); err != nil {
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

	fullQuery := `SELECT ` + postColumns + `
		FROM posts p
		LEFT JOIN users u ON u.id = p.author_id` +
		whereClause +
		` ORDER BY p.published_at DESC, p.id DESC LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, fullQuery, append(args, limit, offset)...)
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
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating post rows: %w", err)
	}
	return posts, total, nil
}

func (s *StoreImpl) GetCategoriesForPosts(ctx context.Context, postIDs []int64) (map[int64][]*models.Category, error) {
	byPost := make(map[int64][]*models.Category, len(postIDs))
	if len(postIDs) == 0 {
		return byPost, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(postIDs)), ",")
	args := make([]interface{}, len(postIDs))
	for i, id := range postIDs {
		args[i] = id
	}
	query := `
		SELECT pc.post_id, c.id, c.name, c.slug, c.created_at
		FROM categories c
		JOIN post_categories pc ON c.id = pc.category_id
		WHERE pc.post_id IN (` + placeholders + `)
		ORDER BY pc.post_id, c.name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories for posts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID int64
		cat := &models.Category{}
		if err := rows.Scan(&postID, &cat.ID, &cat.Name, &cat.Slug, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post category row: %w", err)
		}
		byPost[postID] = append(byPost[postID], cat)
	}
	if err := rows.Err(); err != nil {
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
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for post %d: %w", postID, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE posts SET updated_at = ? WHERE id = ?`, time.Now().UTC(), postID)
	if err != nil {
		return fmt.Errorf("failed to touch post %d: %w", postID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_categories WHERE post_id = ?`, postID); err != nil {
		return fmt.Errorf("failed to clear categories of post %d: %w", postID, err)
	}
	for _, categoryID := range categoryIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO post_categories (post_id, category_id) VALUES (?, ?)`,
			postID, categoryID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("category %d does not exist: %w", categoryID, store.ErrForeignKeyViolation)
			}
			return fmt.Errorf("failed to add category %d to post %d: %w", categoryID, postID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit categories of post %d: %w", postID, err)
	}
	return nil
}
