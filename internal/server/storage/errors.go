package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrAlreadyExists indicates a unique constraint violation (email, role assignment)
	ErrAlreadyExists = errors.New("already exists")

	// ErrRoleNotFound indicates that role with this name doesn't exist
	ErrRoleNotFound = errors.New("role not found")

	// ErrClubNotFound indicates that club was not found
	ErrClubNotFound = errors.New("club not found")

	// ErrNewsNotFound indicates that news item was not found
	ErrNewsNotFound = errors.New("news not found")
)
