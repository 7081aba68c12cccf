package services

import (
	"context"
	"fmt"

	"bulkcat/internal/models"
	"bulkcat/internal/store"
)

type CategoryService struct {
	store store.CategoryStore
}

func NewCategoryService(cs store.CategoryStore) *CategoryService {
	return &CategoryService{store: cs}
}

// ListCategories returns all categories, including empty ones, ordered by name.
func (s *CategoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories from store: %w", err)
	}
	if cats == nil {
		return []*models.Category{}, nil
	}
	return cats, nil
}
