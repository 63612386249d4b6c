package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// sqliteSessionRepository stores logged workout sessions and their sets.
//
// The table is named workout_sessions because the scs session store claims
// the plain sessions table.
type sqliteSessionRepository struct {
	baseRepository
}

// Create starts a new session for the user, optionally linked to a plan.
func (r *sqliteSessionRepository) Create(ctx context.Context, userID int, planID *int) (Session, error) {
	startedAt := time.Now()
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO workout_sessions (user_id, plan_id, started_at)
		VALUES (?, ?, ?)`,
		userID, planID, formatTimestamp(startedAt))
	if err != nil {
		return Session{}, fmt.Errorf("insert workout session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Session{}, fmt.Errorf("get last insert ID: %w", err)
	}
	return Session{
		ID:        int(id),
		UserID:    userID,
		PlanID:    planID,
		StartedAt: startedAt,
	}, nil
}

// Get retrieves the user's session with its logged sets.
func (r *sqliteSessionRepository) Get(ctx context.Context, userID, sessionID int) (Session, error) {
	var (
		session        Session
		startedAtStr   string
		completedAtStr sql.NullString
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, user_id, plan_id, started_at, completed_at, notes
		FROM workout_sessions
		WHERE id = ? AND user_id = ?`, sessionID, userID).Scan(
		&session.ID, &session.UserID, &session.PlanID, &startedAtStr, &completedAtStr, &session.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("workout session %d: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return Session{}, fmt.Errorf("query workout session: %w", err)
	}

	if session.StartedAt, err = time.Parse(timestampFormat, startedAtStr); err != nil {
		return Session{}, fmt.Errorf("parse started_at: %w", err)
	}
	if session.CompletedAt, err = parseTimestamp(completedAtStr); err != nil {
		return Session{}, fmt.Errorf("parse completed_at: %w", err)
	}

	if session.Sets, err = r.fetchSessionSets(ctx, session.ID); err != nil {
		return Session{}, fmt.Errorf("fetch session sets: %w", err)
	}

	return session, nil
}

// List returns the user's sessions newest first, with sets loaded.
func (r *sqliteSessionRepository) List(ctx context.Context, userID int) (_ []Session, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, user_id, plan_id, started_at, completed_at, notes
		FROM workout_sessions
		WHERE user_id = ?
		ORDER BY started_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query workout sessions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var sessions []Session
	for rows.Next() {
		var (
			session        Session
			startedAtStr   string
			completedAtStr sql.NullString
		)
		if err = rows.Scan(&session.ID, &session.UserID, &session.PlanID, &startedAtStr,
			&completedAtStr, &session.Notes); err != nil {
			return nil, fmt.Errorf("scan workout session: %w", err)
		}
		if session.StartedAt, err = time.Parse(timestampFormat, startedAtStr); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if session.CompletedAt, err = parseTimestamp(completedAtStr); err != nil {
			return nil, fmt.Errorf("parse completed_at: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for i := range sessions {
		if sessions[i].Sets, err = r.fetchSessionSets(ctx, sessions[i].ID); err != nil {
			return nil, fmt.Errorf("fetch session sets: %w", err)
		}
	}

	return sessions, nil
}

// Update applies updateFn to the session aggregate and persists it when the
// function reports a change.
func (r *sqliteSessionRepository) Update(
	ctx context.Context,
	userID int,
	sessionID int,
	updateFn func(sess *Session) (bool, error),
) (err error) {
	session, err := r.Get(ctx, userID, sessionID)
	if err != nil {
		return fmt.Errorf("get session for update: %w", err)
	}

	updated, err := updateFn(&session)
	if err != nil {
		return fmt.Errorf("update function: %w", err)
	}
	if !updated {
		return nil
	}

	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback transaction: %w", rollbackErr))
		}
	}()

	var completedAt *string
	if session.CompletedAt != nil {
		formatted := formatTimestamp(*session.CompletedAt)
		completedAt = &formatted
	}
	if _, err = tx.ExecContext(ctx, `
		UPDATE workout_sessions
		SET plan_id = ?, completed_at = ?, notes = ?
		WHERE id = ? AND user_id = ?`,
		session.PlanID, completedAt, session.Notes, session.ID, userID); err != nil {
		return fmt.Errorf("update workout session: %w", err)
	}

	// Sets are reinserted wholesale so removals and edits need no diffing.
	if _, err = tx.ExecContext(ctx, `DELETE FROM session_sets WHERE session_id = ?`, session.ID); err != nil {
		return fmt.Errorf("delete session sets: %w", err)
	}
	for _, set := range session.Sets {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO session_sets (session_id, exercise_id, set_number, reps, weight_kg)
			VALUES (?, ?, ?, ?, ?)`,
			session.ID, set.ExerciseID, set.SetNumber, set.Reps, set.WeightKg); err != nil {
			return fmt.Errorf("insert session set: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (r *sqliteSessionRepository) fetchSessionSets(ctx context.Context, sessionID int) (_ []SessionSet, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, exercise_id, set_number, reps, weight_kg
		FROM session_sets
		WHERE session_id = ?
		ORDER BY exercise_id, set_number`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query session sets: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var sets []SessionSet
	for rows.Next() {
		var set SessionSet
		if err = rows.Scan(&set.ID, &set.ExerciseID, &set.SetNumber, &set.Reps, &set.WeightKg); err != nil {
			return nil, fmt.Errorf("scan session set: %w", err)
		}
		sets = append(sets, set)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return sets, nil
}

// WeightPoint is one point in a chart series.
type WeightPoint struct {
	Date     string  `json:"date"`
	WeightKg float64 `json:"weightKg"`
}

// BestSetSeries aggregates the heaviest logged set per day for an exercise,
// feeding the progress chart.
func (r *sqliteSessionRepository) BestSetSeries(
	ctx context.Context,
	userID int,
	exerciseID int,
) (_ []WeightPoint, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT date(ws.started_at) AS day, MAX(ss.weight_kg) AS best
		FROM session_sets ss
		JOIN workout_sessions ws ON ws.id = ss.session_id
		WHERE ws.user_id = ? AND ss.exercise_id = ?
		GROUP BY day
		ORDER BY day`, userID, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("query best set series: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var series []WeightPoint
	for rows.Next() {
		var point WeightPoint
		if err = rows.Scan(&point.Date, &point.WeightKg); err != nil {
			return nil, fmt.Errorf("scan series point: %w", err)
		}
		series = append(series, point)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return series, nil
}
