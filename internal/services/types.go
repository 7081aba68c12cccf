package services

import (
	"bulkcat/internal/models"
)

// DefaultPerPageOptions are the page sizes the filter view accepts.
var DefaultPerPageOptions = []int{20, 30, 50, 100}

const DefaultPerPage = 20

// ListPostsParams is the filter view input. Zero category ids disable that filter.
type ListPostsParams struct {
	IncludeCategory int64  `json:"cat"`
	ExcludeCategory int64  `json:"exclude_cat"`
	Search          string `json:"s"`
	PerPage         int    `json:"per_page"`
	Page            int    `json:"paged"`
}

type PostListItem struct {
	Post       *models.Post       `json:"post"`
	Categories []*models.Category `json:"categories"`
}

// PostPage is one page of the filter view plus what is needed to paginate it.
type PostPage struct {
	Filter     ListPostsParams `json:"filter"`
	Items      []PostListItem  `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	TotalPages int             `json:"total_pages"`
	From       int             `json:"from"` // 1-based index of the first item shown, 0 when empty
	To         int             `json:"to"`
	Warnings   []string        `json:"warnings,omitempty"`
}
