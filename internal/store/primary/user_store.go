package primary

import (
	"context"
	"errors"
	"fmt"

	"bulkcat/internal/models"
	"bulkcat/internal/store"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, login, display_name, role, COALESCE(api_key, ''), created_at`

func (s *StoreImpl) getUser(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg).Scan(
		&user.ID, &user.Login, &user.DisplayName, &user.Role, &user.APIKey, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
	return s.getUser(ctx, "api_key = $1", apiKey)
}

func (s *StoreImpl) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	return s.getUser(ctx, "login = $1", login)
}

var _ store.UserStore = (*StoreImpl)(nil)
