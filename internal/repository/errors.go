package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a row violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)
