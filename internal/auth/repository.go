package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	internalerrors "github.com/evankoski/liftplan/internal/errors"
	"github.com/evankoski/liftplan/internal/sqlite"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = internalerrors.NewSentinel("user not found")
	// ErrEmailTaken is returned when registering an email that already has an
	// account.
	ErrEmailTaken = internalerrors.NewSentinel("email already registered")
)

const timestampFormat = "2006-01-02T15:04:05.000Z"

// User is a registered account. The password hash never leaves this package.
type User struct {
	ID          int
	Email       string
	DisplayName string
	CreatedAt   time.Time

	passwordHash []byte
}

type sqliteUserRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

// Create inserts a new user and returns it with its id assigned.
func (r *sqliteUserRepository) Create(ctx context.Context, email string, passwordHash []byte, displayName string) (User, error) {
	createdAt := time.Now().UTC()
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, display_name, created_at)
		VALUES (?, ?, ?, ?)`,
		email, passwordHash, displayName, createdAt.Format(timestampFormat))
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return User{}, fmt.Errorf("email %s: %w", email, ErrEmailTaken)
	}
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return User{}, fmt.Errorf("get last insert ID: %w", err)
	}
	return User{
		ID:           int(id),
		Email:        email,
		DisplayName:  displayName,
		CreatedAt:    createdAt,
		passwordHash: passwordHash,
	}, nil
}

// GetByEmail looks up a user by their login email.
func (r *sqliteUserRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.get(ctx, `WHERE email = ?`, email)
}

// GetByID looks up a user by their id.
func (r *sqliteUserRepository) GetByID(ctx context.Context, id int) (User, error) {
	return r.get(ctx, `WHERE id = ?`, id)
}

func (r *sqliteUserRepository) get(ctx context.Context, where string, arg any) (User, error) {
	var (
		user         User
		createdAtStr string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx,
		`SELECT id, email, password_hash, display_name, created_at FROM users `+where, arg).
		Scan(&user.ID, &user.Email, &user.passwordHash, &user.DisplayName, &createdAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("user %v: %w", arg, ErrUserNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("query user: %w", err)
	}
	if user.CreatedAt, err = time.Parse(timestampFormat, createdAtStr); err != nil {
		return User{}, fmt.Errorf("parse created_at: %w", err)
	}
	return user, nil
}

// UpdateDisplayName renames the user's public display name.
func (r *sqliteUserRepository) UpdateDisplayName(ctx context.Context, userID int, displayName string) error {
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE users SET display_name = ? WHERE id = ?`, displayName, userID)
	if err != nil {
		return fmt.Errorf("update display name: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}
	return nil
}

// Delete removes the user and, through cascading foreign keys, all their data.
func (r *sqliteUserRepository) Delete(ctx context.Context, userID int) error {
	result, err := r.db.ReadWrite.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}
	return nil
}
