package workout

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/evankoski/liftplan/internal/errors"
	"github.com/evankoski/liftplan/internal/sqlite"
)

const timestampFormat = "2006-01-02T15:04:05.000Z"
const dateFormat = time.DateOnly

// ErrNotFound signals that the requested record does not exist or is not
// visible to the requesting user.
var ErrNotFound = errors.NewSentinel("not found")

// baseRepository carries the shared dependencies of the SQLite repositories.
type baseRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newBaseRepository(db *sqlite.Database, logger *slog.Logger) baseRepository {
	return baseRepository{
		db:     db,
		logger: logger,
	}
}

// repository bundles the SQLite repositories behind the service.
type repository struct {
	exercises  *sqliteExerciseRepository
	categories *sqliteCategoryRepository
	plans      *sqlitePlanRepository
	sessions   *sqliteSessionRepository
	repMaxes   *sqliteRepMaxRepository
}

func newRepository(db *sqlite.Database, logger *slog.Logger) *repository {
	base := newBaseRepository(db, logger)
	exercises := &sqliteExerciseRepository{baseRepository: base}
	return &repository{
		exercises:  exercises,
		categories: &sqliteCategoryRepository{baseRepository: base},
		plans:      &sqlitePlanRepository{baseRepository: base, exercises: exercises},
		sessions:   &sqliteSessionRepository{baseRepository: base},
		repMaxes:   &sqliteRepMaxRepository{baseRepository: base},
	}
}

func formatDate(t time.Time) string {
	return t.Format(dateFormat)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampFormat)
}

// parseTimestamp parses a timestamp from a nullable database string.
func parseTimestamp(timestampStr sql.NullString) (*time.Time, error) {
	if !timestampStr.Valid {
		return nil, nil //nolint:nilnil // nil time is expected when the column is NULL.
	}
	parsed, err := time.Parse(timestampFormat, timestampStr.String)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp format: %w", err)
	}
	return &parsed, nil
}
