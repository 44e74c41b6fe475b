package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/iudanet/leaguehub/internal/models"
	"github.com/iudanet/leaguehub/internal/server/storage"
	"github.com/iudanet/leaguehub/internal/validation"
)

// dummyPassword хешируется один раз при создании сервиса. Для неизвестного
// email SignIn проверяет пароль против этого хеша, чтобы время ответа не
// зависело от того, существует ли пользователь.
const dummyPassword = "leaguehub-dummy-password"

// Service implements sign-in, refresh rotation and logout
type Service struct {
	store     CredentialStore
	hasher    Hasher
	tokens    TokenIssuer
	logger    *slog.Logger
	dummyHash string
}

// NewService creates a new auth service
func NewService(logger *slog.Logger, store CredentialStore, hasher Hasher, tokens TokenIssuer) *Service {
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		logger.Error("failed to prepare dummy password hash", slog.Any("error", err))
	}

	return &Service{
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
		dummyHash: dummyHash,
	}
}

// SignIn authenticates by email and password and issues a new token pair.
// The previous refresh token of the user, if any, stops working.
func (s *Service) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	email = validation.NormalizeEmail(email)

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Результат не важен, важна стоимость проверки
			_, _ = s.hasher.Verify(s.dummyHash, password)
			s.logger.WarnContext(ctx, "sign-in failed: unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.logger.WarnContext(ctx, "sign-in failed: wrong password", slog.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	roles, permissions, err := s.rolesAndPermissions(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user signed in", slog.Int64("user_id", user.ID))

	return &SignInResult{
		User:        user,
		Tokens:      pair,
		Roles:       roles,
		Permissions: permissions,
	}, nil
}

// Refresh rotates the token pair. The presented token must already have a
// valid signature and expiry; here it is checked against the stored hash.
func (s *Service) Refresh(ctx context.Context, userID int64, refreshToken string) (*models.TokenPair, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.logger.WarnContext(ctx, "refresh denied: unknown user", slog.Int64("user_id", userID))
			return nil, ErrAccessDenied
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasSession() {
		s.logger.WarnContext(ctx, "refresh denied: no active session", slog.Int64("user_id", userID))
		return nil, ErrAccessDenied
	}

	ok, err := s.hasher.Verify(*user.RefreshTokenHash, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify refresh token: %w", err)
	}
	if !ok {
		// Сюда попадает и повторное использование уже ротированного токена
		s.logger.WarnContext(ctx, "refresh denied: token does not match", slog.Int64("user_id", userID))
		return nil, ErrAccessDenied
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tokens refreshed", slog.Int64("user_id", userID))

	return pair, nil
}

// Logout clears the user's refresh token slot. It is idempotent and
// succeeds for users without a session.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	cleared, err := s.store.ClearRefreshTokenHash(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged out",
		slog.Int64("user_id", userID),
		slog.Bool("session_cleared", cleared))

	return nil
}

// Permissions returns the flattened permission set of the user.
func (s *Service) Permissions(ctx context.Context, userID int64) ([]string, error) {
	_, permissions, err := s.rolesAndPermissions(ctx, userID)
	return permissions, err
}

// Profile returns the user with roles and permissions, without tokens.
func (s *Service) Profile(ctx context.Context, userID int64) (*SignInResult, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	roles, permissions, err := s.rolesAndPermissions(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &SignInResult{User: user, Roles: roles, Permissions: permissions}, nil
}

// EnsureUser creates the user with the given roles unless the email is
// already registered. An existing user keeps its name and password, but the
// roles are assigned again, so a bootstrap interrupted after CreateUser is
// repaired on the next start.
func (s *Service) EnsureUser(ctx context.Context, name, email, password string, roles ...string) (*models.User, error) {
	email = validation.NormalizeEmail(email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}

	existing, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		if err := s.assignRoles(ctx, existing.ID, roles); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.assignRoles(ctx, user.ID, roles); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user created",
		slog.Int64("user_id", user.ID),
		slog.Any("roles", roles))

	return user, nil
}

// assignRoles выдает роли; повторная выдача уже имеющейся роли не ошибка
func (s *Service) assignRoles(ctx context.Context, userID int64, roles []string) error {
	for _, role := range roles {
		if err := s.store.AssignRole(ctx, userID, role); err != nil {
			return fmt.Errorf("failed to assign role %q: %w", role, err)
		}
	}
	return nil
}

// issueTokenPair подписывает новую пару и сохраняет хеш refresh token.
// Пара возвращается только после успешной записи.
func (s *Service) issueTokenPair(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	pair, err := s.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	hash, err := s.hasher.Hash(pair.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to hash refresh token: %w", err)
	}

	if err := s.store.SetRefreshTokenHash(ctx, user.ID, hash); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return pair, nil
}

func (s *Service) rolesAndPermissions(ctx context.Context, userID int64) ([]string, []string, error) {
	roles, err := s.store.GetUserRoles(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user roles: %w", err)
	}

	names := make([]string, 0, len(roles))
	var permissions []string
	for _, role := range roles {
		names = append(names, role.Name)
		permissions = append(permissions, role.Permissions...)
	}

	slices.Sort(names)
	slices.Sort(permissions)

	return names, append([]string{}, slices.Compact(permissions)...), nil
}

// HasPermissions reports whether every required permission is granted.
func HasPermissions(granted, required []string) bool {
	for _, p := range required {
		if !slices.Contains(granted, p) {
			return false
		}
	}
	return true
}
