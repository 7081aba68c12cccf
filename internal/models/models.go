package models

import (
	"time"
)

// Post types and statuses recognised by the content store.
const (
	PostTypePost      = "post"
	PostStatusPublish = "publish"
)

// User roles, highest privilege first.
const (
	RoleAdministrator = "administrator"
	RoleEditor        = "editor"
	RoleAuthor        = "author"
	RoleSubscriber    = "subscriber"
)

type User struct {
	ID          int64     `db:"id" json:"id"`
	Login       string    `db:"login" json:"login"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Role        string    `db:"role" json:"role"`
	APIKey      string    `db:"api_key" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Category struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	Count     int       `db:"count" json:"count"` // number of associated posts, computed on read
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Post struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Type        string    `db:"post_type" json:"type"`
	Status      string    `db:"status" json:"status"`
	AuthorID    int64     `db:"author_id" json:"author_id"`
	AuthorName  string    `db:"author_name" json:"author_name"` // joined from users
	PublishedAt time.Time `db:"published_at" json:"published_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// MoveEvent is emitted once per post whose category set was replaced.
type MoveEvent struct {
	BatchID    string    `json:"batch_id"`
	PostID     int64     `json:"post_id"`
	CategoryID int64     `json:"category_id"`
	ActorID    int64     `json:"actor_id"`
	MovedAt    time.Time `json:"moved_at"`
}
