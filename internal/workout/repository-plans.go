package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// sqlitePlanRepository stores plan aggregates: the plan row, its category
// tags, activities, and per-set prescriptions.
type sqlitePlanRepository struct {
	baseRepository
	exercises *sqliteExerciseRepository
}

// Create persists a generated plan and returns it with identifiers assigned.
func (r *sqlitePlanRepository) Create(ctx context.Context, plan Plan) (_ Plan, err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return plan, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback transaction: %w", rollbackErr))
		}
	}()

	plan.PublicID = uuid.NewString()
	plan.CreatedAt = time.Now()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO plans (public_id, user_id, name, description, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		plan.PublicID, plan.UserID, plan.Name, plan.Description, formatTimestamp(plan.CreatedAt))
	if err != nil {
		return plan, fmt.Errorf("insert plan: %w", err)
	}
	planID, err := result.LastInsertId()
	if err != nil {
		return plan, fmt.Errorf("get last insert ID: %w", err)
	}
	plan.ID = int(planID)

	for _, category := range plan.Categories {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO plan_categories (plan_id, category_id)
			VALUES (?, ?)`, plan.ID, category.ID); err != nil {
			return plan, fmt.Errorf("insert plan category %s: %w", category.Name, err)
		}
	}

	for i := range plan.Activities {
		activity := &plan.Activities[i]
		var activityResult sql.Result
		activityResult, err = tx.ExecContext(ctx, `
			INSERT INTO plan_activities (plan_id, exercise_id, position, rest_seconds)
			VALUES (?, ?, ?, ?)`,
			plan.ID, activity.Exercise.ID, activity.Order, restSecondsOf(activity))
		if err != nil {
			return plan, fmt.Errorf("insert plan activity %d: %w", activity.Order, err)
		}
		var activityID int64
		if activityID, err = activityResult.LastInsertId(); err != nil {
			return plan, fmt.Errorf("get activity insert ID: %w", err)
		}
		for _, set := range activity.Sets {
			if _, err = tx.ExecContext(ctx, `
				INSERT INTO plan_sets (activity_id, set_number, target_reps, weight_kg)
				VALUES (?, ?, ?, ?)`,
				activityID, set.Order, set.Reps, set.WeightKg); err != nil {
				return plan, fmt.Errorf("insert plan set %d: %w", set.Order, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return plan, fmt.Errorf("commit transaction: %w", err)
	}

	return plan, nil
}

// ListSummaries returns the user's plans without activities, newest first.
func (r *sqlitePlanRepository) ListSummaries(ctx context.Context, userID int) (_ []Plan, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, public_id, user_id, name, description, created_at
		FROM plans
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var plans []Plan
	for rows.Next() {
		var (
			plan         Plan
			createdAtStr string
		)
		if err = rows.Scan(&plan.ID, &plan.PublicID, &plan.UserID, &plan.Name, &plan.Description,
			&createdAtStr); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		if plan.CreatedAt, err = time.Parse(timestampFormat, createdAtStr); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		plans = append(plans, plan)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return plans, nil
}

// GetByPublicID loads the full plan aggregate addressed by its share id.
func (r *sqlitePlanRepository) GetByPublicID(ctx context.Context, publicID string) (Plan, error) {
	var (
		plan         Plan
		createdAtStr string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, public_id, user_id, name, description, created_at
		FROM plans
		WHERE public_id = ?`, publicID).Scan(
		&plan.ID, &plan.PublicID, &plan.UserID, &plan.Name, &plan.Description, &createdAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return Plan{}, fmt.Errorf("plan %s: %w", publicID, ErrNotFound)
	}
	if err != nil {
		return Plan{}, fmt.Errorf("query plan: %w", err)
	}
	if plan.CreatedAt, err = time.Parse(timestampFormat, createdAtStr); err != nil {
		return Plan{}, fmt.Errorf("parse created_at: %w", err)
	}

	if plan.Categories, err = r.fetchPlanCategories(ctx, plan.ID); err != nil {
		return Plan{}, fmt.Errorf("fetch plan categories: %w", err)
	}
	if plan.Activities, err = r.fetchPlanActivities(ctx, plan.ID); err != nil {
		return Plan{}, fmt.Errorf("fetch plan activities: %w", err)
	}

	return plan, nil
}

// Delete removes the user's plan. Plans owned by other users stay untouched.
func (r *sqlitePlanRepository) Delete(ctx context.Context, userID, planID int) error {
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		DELETE FROM plans WHERE id = ? AND user_id = ?`, planID, userID)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("plan %d: %w", planID, ErrNotFound)
	}
	return nil
}

func (r *sqlitePlanRepository) fetchPlanCategories(ctx context.Context, planID int) (_ []Category, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT c.id, c.name
		FROM plan_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.plan_id = ?
		ORDER BY c.id`, planID)
	if err != nil {
		return nil, fmt.Errorf("query plan categories: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var categories []Category
	for rows.Next() {
		var category Category
		if err = rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, fmt.Errorf("scan plan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return categories, nil
}

func (r *sqlitePlanRepository) fetchPlanActivities(ctx context.Context, planID int) (_ []Activity, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, exercise_id, position, rest_seconds
		FROM plan_activities
		WHERE plan_id = ?
		ORDER BY position`, planID)
	if err != nil {
		return nil, fmt.Errorf("query plan activities: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	type activityRow struct {
		id          int
		exerciseID  int
		position    int
		restSeconds *int
	}
	var activityRows []activityRow
	for rows.Next() {
		var row activityRow
		if err = rows.Scan(&row.id, &row.exerciseID, &row.position, &row.restSeconds); err != nil {
			return nil, fmt.Errorf("scan plan activity: %w", err)
		}
		activityRows = append(activityRows, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	var activities []Activity
	for _, row := range activityRows {
		var exercise Exercise
		if exercise, err = r.exercises.Get(ctx, row.exerciseID); err != nil {
			return nil, fmt.Errorf("get exercise %d: %w", row.exerciseID, err)
		}
		var sets []Set
		if sets, err = r.fetchActivitySets(ctx, row.id, row.restSeconds); err != nil {
			return nil, fmt.Errorf("fetch sets for activity %d: %w", row.id, err)
		}
		activities = append(activities, Activity{
			Exercise: exercise,
			Order:    row.position,
			Sets:     sets,
		})
	}

	return activities, nil
}

func (r *sqlitePlanRepository) fetchActivitySets(
	ctx context.Context,
	activityID int,
	restSeconds *int,
) (_ []Set, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT set_number, target_reps, weight_kg
		FROM plan_sets
		WHERE activity_id = ?
		ORDER BY set_number`, activityID)
	if err != nil {
		return nil, fmt.Errorf("query plan sets: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var sets []Set
	for rows.Next() {
		var set Set
		if err = rows.Scan(&set.Order, &set.Reps, &set.WeightKg); err != nil {
			return nil, fmt.Errorf("scan plan set: %w", err)
		}
		set.RestSeconds = restSeconds
		sets = append(sets, set)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return sets, nil
}

// restSecondsOf lifts the shared rest prescription off the activity's sets.
// All generated sets in one activity carry the same rest.
func restSecondsOf(activity *Activity) *int {
	if len(activity.Sets) == 0 {
		return nil
	}
	return activity.Sets[0].RestSeconds
}
