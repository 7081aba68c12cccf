package services

import (
	"context"
	"fmt"
	"math"

	"bulkcat/internal/models"
	"bulkcat/internal/store"
)

const warnSameCategory = "The same category is both included and excluded; no posts can match this filter."

type PostService struct {
	store          store.PostStore
	defaultPerPage int
	perPageOptions []int
}

// NewPostService builds the filter view. Empty options fall back to the defaults.
func NewPostService(ps store.PostStore, defaultPerPage int, perPageOptions []int) *PostService {
	if len(perPageOptions) == 0 {
		perPageOptions = DefaultPerPageOptions
	}
	if !containsInt(perPageOptions, defaultPerPage) {
		defaultPerPage = perPageOptions[0]
	}
	return &PostService{store: ps, defaultPerPage: defaultPerPage, perPageOptions: perPageOptions}
}

// PerPageOptions lists the accepted page sizes.
func (s *PostService) PerPageOptions() []int {
	return s.perPageOptions
}

// Normalize clamps params to what the view accepts and collects non-blocking warnings.
func (s *PostService) Normalize(params ListPostsParams) (ListPostsParams, []string) {
	var warnings []string
	if params.IncludeCategory < 0 {
		params.IncludeCategory = 0
	}
	if params.ExcludeCategory < 0 {
		params.ExcludeCategory = 0
	}
	if !containsInt(s.perPageOptions, params.PerPage) {
		params.PerPage = s.defaultPerPage
	}
	if params.Page < 1 {
		params.Page = 1
	}
	// keeps Page*PerPage (offset and display range) within int
	if maxPage := math.MaxInt / params.PerPage; params.Page > maxPage {
		params.Page = maxPage
	}
	if params.IncludeCategory > 0 && params.IncludeCategory == params.ExcludeCategory {
		warnings = append(warnings, warnSameCategory)
	}
	return params, warnings
}

// ListPosts returns the requested page of published posts with their categories.
func (s *PostService) ListPosts(ctx context.Context, params ListPostsParams) (*PostPage, error) {
	params, warnings := s.Normalize(params)

	posts, total, err := s.store.ListPosts(ctx, store.PostQuery{
		IncludeCategory: params.IncludeCategory,
		ExcludeCategory: params.ExcludeCategory,
		Search:          params.Search,
		PostType:        models.PostTypePost,
		Status:          models.PostStatusPublish,
		Limit:           params.PerPage,
		Offset:          (params.Page - 1) * params.PerPage,
	})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	categories, err := s.store.GetCategoriesForPosts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get categories for posts: %w", err)
	}

	items := make([]PostListItem, len(posts))
	for i, p := range posts {
		cats := categories[p.ID]
		if cats == nil {
			cats = []*models.Category{}
		}
		items[i] = PostListItem{Post: p, Categories: cats}
	}

	page := &PostPage{
		Filter:   params,
		Items:    items,
		Total:    total,
		Page:     params.Page,
		PerPage:  params.PerPage,
		Warnings: warnings,
	}
	page.TotalPages, page.From, page.To = paginate(total, params.Page, params.PerPage)
	return page, nil
}

// paginate computes the page count and the 1-based display range of page.
func paginate(total, page, perPage int) (totalPages, from, to int) {
	if perPage <= 0 || total <= 0 {
		return 0, 0, 0
	}
	totalPages = (total + perPage - 1) / perPage
	from = (page-1)*perPage + 1
	if from > total {
		return totalPages, 0, 0
	}
	to = page * perPage
	if to > total {
		to = total
	}
	return totalPages, from, to
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
