package services

import (
	"context"
	"errors"
	"fmt"

	"bulkcat/internal/models"
	"bulkcat/internal/store"
)

// ErrUnauthenticated means no user matches the presented credentials.
var ErrUnauthenticated = errors.New("unauthenticated")

type UserService struct {
	store store.UserStore
}

func NewUserService(us store.UserStore) *UserService {
	return &UserService{store: us}
}

// Authenticate resolves an API key to its user.
func (s *UserService) Authenticate(ctx context.Context, apiKey string) (*models.User, error) {
	if apiKey == "" {
		return nil, ErrUnauthenticated
	}
	user, err := s.store.GetUserByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return user, nil
}

func (s *UserService) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	user, err := s.store.GetUserByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", login, err)
	}
	return user, nil
}
