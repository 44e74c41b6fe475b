package storage

import "context"

// Storage aggregates everything the server persists.
// Implemented by the sqlite and postgres packages.
type Storage interface {
	UserStorage
	TokenStorage
	ClubStorage
	NewsStorage

	// Ping checks that the database is reachable
	Ping(ctx context.Context) error
	Close() error
}
