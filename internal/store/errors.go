package store

import "errors"

var (
	ErrNotFound            = errors.New("store: resource not found")
	ErrForeignKeyViolation = errors.New("store: foreign key constraint violation")
)
