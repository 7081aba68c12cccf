package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bulkcat/internal/models"
	"bulkcat/internal/store"
)

func (s *StoreImpl) getUser(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, login, display_name, role, IFNULL(api_key, ''), created_at FROM users WHERE `+where, arg,
	).Scan(&user.ID, &user.Login, &user.DisplayName, &user.Role, &user.APIKey, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *StoreImpl) GetUserByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	if apiKey == "" {
		return nil, store.ErrNotFound
	}
	return s.getUser(ctx, "api_key = ?", apiKey)
}

func (s *StoreImpl) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	return s.getUser(ctx, "login = ?", login)
}
