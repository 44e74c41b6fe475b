package storage

import "context"

// MetadataStorage defines interface for storing client preferences
type MetadataStorage interface {
	// SaveLanguage saves the preferred content language
	SaveLanguage(ctx context.Context, lang string) error

	// GetLanguage retrieves the preferred content language
	// Returns "" if no language has been chosen yet
	GetLanguage(ctx context.Context) (string, error)
}
