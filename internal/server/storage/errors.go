package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this email already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrUnsupportedDatabase indicates that DATABASE_URL has an unknown scheme
	ErrUnsupportedDatabase = errors.New("unsupported database url")
)
