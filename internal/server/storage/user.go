package storage

import (
	"context"

	"github.com/iudanet/leaguehub/internal/models"
)

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// CreateUser creates a new user and sets user.ID
	// Returns ErrAlreadyExists if email is taken
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves user by normalized email
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)

	// GetUserRoles returns user roles with their permissions, ordered by role name
	// Returns empty slice if user has no roles
	GetUserRoles(ctx context.Context, userID int64) ([]models.Role, error)

	// AssignRole grants a role to the user
	// Returns ErrRoleNotFound for unknown role, ErrUserNotFound for unknown user.
	// Assigning an already granted role is a no-op.
	AssignRole(ctx context.Context, userID int64, role string) error
}
