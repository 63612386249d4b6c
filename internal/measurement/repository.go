package measurement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	internalerrors "github.com/evankoski/liftplan/internal/errors"
	"github.com/evankoski/liftplan/internal/sqlite"
)

// ErrNotFound is returned when a measurement does not exist.
var ErrNotFound = internalerrors.NewSentinel("measurement not found")

const dateFormat = time.DateOnly

type sqliteMeasurementRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

// Upsert records or replaces the user's measurement for a day. One row per
// user and day keeps the series clean for charting.
func (r *sqliteMeasurementRepository) Upsert(ctx context.Context, m Measurement) error {
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO measurements (user_id, measured_on, weight_kg, height_cm)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, measured_on) DO UPDATE SET
			weight_kg = excluded.weight_kg,
			height_cm = excluded.height_cm`,
		m.UserID, m.MeasuredOn.Format(dateFormat), m.WeightKg, m.HeightCm)
	if err != nil {
		return fmt.Errorf("upsert measurement: %w", err)
	}
	return nil
}

// ListForUser returns the user's measurements oldest first.
func (r *sqliteMeasurementRepository) ListForUser(ctx context.Context, userID int) (_ []Measurement, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, user_id, measured_on, weight_kg, height_cm
		FROM measurements
		WHERE user_id = ?
		ORDER BY measured_on`, userID)
	if err != nil {
		return nil, fmt.Errorf("query measurements: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var measurements []Measurement
	for rows.Next() {
		var (
			m             Measurement
			measuredOnStr string
		)
		if err = rows.Scan(&m.ID, &m.UserID, &measuredOnStr, &m.WeightKg, &m.HeightCm); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		if m.MeasuredOn, err = time.Parse(dateFormat, measuredOnStr); err != nil {
			return nil, fmt.Errorf("parse measured_on: %w", err)
		}
		measurements = append(measurements, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return measurements, nil
}

// Latest returns the user's most recent measurement.
func (r *sqliteMeasurementRepository) Latest(ctx context.Context, userID int) (Measurement, error) {
	var (
		m             Measurement
		measuredOnStr string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, user_id, measured_on, weight_kg, height_cm
		FROM measurements
		WHERE user_id = ?
		ORDER BY measured_on DESC
		LIMIT 1`, userID).Scan(&m.ID, &m.UserID, &measuredOnStr, &m.WeightKg, &m.HeightCm)
	if errors.Is(err, sql.ErrNoRows) {
		return Measurement{}, fmt.Errorf("latest measurement for user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return Measurement{}, fmt.Errorf("query latest measurement: %w", err)
	}
	if m.MeasuredOn, err = time.Parse(dateFormat, measuredOnStr); err != nil {
		return Measurement{}, fmt.Errorf("parse measured_on: %w", err)
	}
	return m, nil
}

// Delete removes the user's measurement for a day.
func (r *sqliteMeasurementRepository) Delete(ctx context.Context, userID int, measuredOn time.Time) error {
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		DELETE FROM measurements
		WHERE user_id = ? AND measured_on = ?`, userID, measuredOn.Format(dateFormat))
	if err != nil {
		return fmt.Errorf("delete measurement: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("measurement on %s: %w", measuredOn.Format(dateFormat), ErrNotFound)
	}
	return nil
}
