package workout

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// sqliteRepMaxRepository stores per-user one-rep-max records.
type sqliteRepMaxRepository struct {
	baseRepository
}

// Upsert records or replaces the user's rep max for an exercise.
func (r *sqliteRepMaxRepository) Upsert(ctx context.Context, userID, exerciseID int, weightKg float64) error {
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO rep_maxes (user_id, exercise_id, weight_kg, recorded_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, exercise_id) DO UPDATE SET
			weight_kg = excluded.weight_kg,
			recorded_at = excluded.recorded_at`,
		userID, exerciseID, weightKg, formatTimestamp(time.Now()))
	if err != nil {
		return fmt.Errorf("upsert rep max: %w", err)
	}
	return nil
}

// ListForUser returns the user's rep maxes ordered by exercise.
func (r *sqliteRepMaxRepository) ListForUser(ctx context.Context, userID int) (_ []RepMax, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT exercise_id, weight_kg, recorded_at
		FROM rep_maxes
		WHERE user_id = ?
		ORDER BY exercise_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query rep maxes: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var repMaxes []RepMax
	for rows.Next() {
		var (
			repMax        RepMax
			recordedAtStr string
		)
		if err = rows.Scan(&repMax.ExerciseID, &repMax.WeightKg, &recordedAtStr); err != nil {
			return nil, fmt.Errorf("scan rep max: %w", err)
		}
		if repMax.RecordedAt, err = time.Parse(timestampFormat, recordedAtStr); err != nil {
			return nil, fmt.Errorf("parse recorded_at: %w", err)
		}
		repMaxes = append(repMaxes, repMax)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return repMaxes, nil
}

// MapForUser returns the user's rep maxes keyed by exercise id, the shape
// the weight back-filler consumes.
func (r *sqliteRepMaxRepository) MapForUser(ctx context.Context, userID int) (map[int]float64, error) {
	repMaxes, err := r.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list rep maxes: %w", err)
	}
	byExercise := make(map[int]float64, len(repMaxes))
	for _, repMax := range repMaxes {
		byExercise[repMax.ExerciseID] = repMax.WeightKg
	}
	return byExercise, nil
}
