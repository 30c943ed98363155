package repository

import "errors"

var (
	// ErrNotFound is returned when no row matches the lookup (including the owner filter).
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when a unique constraint rejects an insert.
	ErrAlreadyExists = errors.New("record already exists")
)
