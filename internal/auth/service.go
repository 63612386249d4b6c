// Package auth implements password authentication and account management.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	internalerrors "github.com/evankoski/liftplan/internal/errors"
	"github.com/evankoski/liftplan/internal/sqlite"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for a wrong email or password. The
	// two cases are indistinguishable on purpose.
	ErrInvalidCredentials = internalerrors.NewSentinel("invalid credentials")
	// ErrWeakPassword is returned when the password fails the length policy.
	ErrWeakPassword = internalerrors.NewSentinel("password too short")
	// ErrInvalidEmail is returned when the email does not parse as an address.
	ErrInvalidEmail = internalerrors.NewSentinel("invalid email address")
)

const minPasswordLength = 8

// Service handles registration, sign-in, and account maintenance.
type Service struct {
	users  *sqliteUserRepository
	logger *slog.Logger
}

// NewService creates a new auth service.
func NewService(db *sqlite.Database, logger *slog.Logger) *Service {
	return &Service{
		users:  &sqliteUserRepository{db: db, logger: logger},
		logger: logger,
	}
}

// SignUp registers a new account with a bcrypt-hashed password.
func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, fmt.Errorf("parse email: %w", ErrInvalidEmail)
	}
	if len(password) < minPasswordLength {
		return User{}, fmt.Errorf("password under %d characters: %w", minPasswordLength, ErrWeakPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, email, hash, displayName)
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "user signed up", slog.Int("user_id", user.ID))

	return user, nil
}

// SignIn verifies the credentials and returns the account.
func (s *Service) SignIn(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if internalerrors.Is(err, ErrUserNotFound) {
		// Burn a hash comparison so unknown emails take as long as wrong
		// passwords.
		_ = bcrypt.CompareHashAndPassword(
			[]byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"), []byte(password))
		return User{}, fmt.Errorf("sign in: %w", ErrInvalidCredentials)
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword(user.passwordHash, []byte(password)); err != nil {
		return User{}, fmt.Errorf("sign in: %w", ErrInvalidCredentials)
	}

	return user, nil
}

// GetUser loads an account by id.
func (s *Service) GetUser(ctx context.Context, userID int) (User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// RenameUser updates the account's display name.
func (s *Service) RenameUser(ctx context.Context, userID int, displayName string) error {
	if err := s.users.UpdateDisplayName(ctx, userID, displayName); err != nil {
		return fmt.Errorf("rename user: %w", err)
	}
	return nil
}

// DeleteUser removes the account and everything owned by it.
func (s *Service) DeleteUser(ctx context.Context, userID int) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "user deleted", slog.Int("user_id", userID))
	return nil
}
