package models

import "errors"

var (
	// ErrNotFound is wrapped by repositories when a row does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is wrapped by services when a request fails validation
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict is wrapped when a write would break a reference between rows
	ErrConflict = errors.New("conflict")
)
