// Package auth authenticates administrators by email and password and
// issues, rotates and revokes their JWT pair.
//
// Each user has a single refresh token slot: only a hash of the most
// recently issued refresh token is stored, so issuing a new pair
// invalidates the previous one.
package auth

import (
	"context"
	"errors"

	"github.com/iudanet/leaguehub/internal/models"
)

var (
	// ErrInvalidCredentials is returned by SignIn for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccessDenied is returned by Refresh when the presented token is not the current one.
	ErrAccessDenied = errors.New("access denied")
)

// CredentialStore is the persistence the service needs.
type CredentialStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
	GetUserRoles(ctx context.Context, userID int64) ([]models.Role, error)
	SetRefreshTokenHash(ctx context.Context, userID int64, hash string) error
	ClearRefreshTokenHash(ctx context.Context, userID int64) (bool, error)
	CreateUser(ctx context.Context, user *models.User) error
	AssignRole(ctx context.Context, userID int64, role string) error
}

// Hasher is a salted one-way hash with constant-time verification.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(encoded, plain string) (bool, error)
}

// TokenIssuer signs an access/refresh pair for an identity.
type TokenIssuer interface {
	IssuePair(userID int64, email string) (*models.TokenPair, error)
}

// SignInResult is returned by SignIn and Profile.
// Tokens is nil for Profile.
type SignInResult struct {
	User        *models.User
	Tokens      *models.TokenPair
	Roles       []string
	Permissions []string
}
