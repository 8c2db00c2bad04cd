package repository

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateSlug is returned when a write loses the race on the
	// files.slug unique constraint. Callers regenerate and retry.
	ErrDuplicateSlug = errors.New("slug already taken")

	// ErrDuplicateEmail is returned when a user insert or update collides
	// with an existing email.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicateName is returned when a folder write loses the race on
	// the sibling-name unique index.
	ErrDuplicateName = errors.New("sibling name already taken")
)
