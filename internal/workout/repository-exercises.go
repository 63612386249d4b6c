package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// sqliteExerciseRepository stores exercises and their category links.
type sqliteExerciseRepository struct {
	baseRepository
}

// Get retrieves a single exercise by ID.
func (r *sqliteExerciseRepository) Get(ctx context.Context, id int) (Exercise, error) {
	var exercise Exercise

	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, owner_id, name, description_markdown, equipment
		FROM exercises
		WHERE id = ?`, id).Scan(
		&exercise.ID,
		&exercise.OwnerID,
		&exercise.Name,
		&exercise.DescriptionMarkdown,
		&exercise.Equipment,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Exercise{}, fmt.Errorf("exercise %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Exercise{}, fmt.Errorf("query exercise: %w", err)
	}

	if err = r.fetchCategories(ctx, &exercise); err != nil {
		return Exercise{}, fmt.Errorf("fetch categories for exercise %d: %w", exercise.ID, err)
	}

	return exercise, nil
}

// ListVisible returns the library catalog plus the user's own exercises.
func (r *sqliteExerciseRepository) ListVisible(ctx context.Context, userID int) (_ []Exercise, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, owner_id, name, description_markdown, equipment
		FROM exercises
		WHERE owner_id IS NULL OR owner_id = ?
		ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var exercises []Exercise
	for rows.Next() {
		var exercise Exercise
		if err = rows.Scan(
			&exercise.ID,
			&exercise.OwnerID,
			&exercise.Name,
			&exercise.DescriptionMarkdown,
			&exercise.Equipment,
		); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		exercises = append(exercises, exercise)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for i := range exercises {
		if err = r.fetchCategories(ctx, &exercises[i]); err != nil {
			return nil, fmt.Errorf("fetch categories for exercise %d: %w", exercises[i].ID, err)
		}
	}

	return exercises, nil
}

// fetchCategories loads the primary and secondary category names onto the
// exercise.
func (r *sqliteExerciseRepository) fetchCategories(ctx context.Context, exercise *Exercise) (err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
        SELECT c.name, ec.is_primary
        FROM exercise_categories ec
        JOIN categories c ON c.id = ec.category_id
        WHERE ec.exercise_id = ?
        ORDER BY c.id
    `, exercise.ID)
	if err != nil {
		return fmt.Errorf("query exercise categories: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	exercise.PrimaryCategory = ""
	exercise.SecondaryCategories = nil

	for rows.Next() {
		var (
			name      string
			isPrimary bool
		)
		if err = rows.Scan(&name, &isPrimary); err != nil {
			return fmt.Errorf("scan category row: %w", err)
		}
		if isPrimary {
			exercise.PrimaryCategory = name
		} else {
			exercise.SecondaryCategories = append(exercise.SecondaryCategories, name)
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("iterate category rows: %w", err)
	}

	return nil
}

// Create adds a new exercise.
func (r *sqliteExerciseRepository) Create(ctx context.Context, ex Exercise) (Exercise, error) {
	var err error
	if ex, err = r.set(ctx, ex, false); err != nil {
		return ex, fmt.Errorf("create exercise: %w", err)
	}
	return ex, nil
}

// Update modifies an existing exercise through updateFn. Returning false
// from updateFn skips the write.
func (r *sqliteExerciseRepository) Update(
	ctx context.Context,
	exerciseID int,
	updateFn func(ex *Exercise) (bool, error),
) error {
	exercise, err := r.Get(ctx, exerciseID)
	if err != nil {
		return fmt.Errorf("get exercise for update: %w", err)
	}

	updated, err := updateFn(&exercise)
	if err != nil {
		return fmt.Errorf("update function: %w", err)
	}

	if !updated {
		return nil
	}

	if _, err = r.set(ctx, exercise, true); err != nil {
		return fmt.Errorf("save updated exercise: %w", err)
	}

	return nil
}

// Delete removes an exercise and its category links.
func (r *sqliteExerciseRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ReadWrite.ExecContext(ctx, `DELETE FROM exercises WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("exercise %d: %w", id, ErrNotFound)
	}
	return nil
}

// set creates or updates an exercise with optional upsert.
func (r *sqliteExerciseRepository) set(ctx context.Context, ex Exercise, upsert bool) (_ Exercise, err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return ex, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback transaction: %w", rollbackErr))
		}
	}()

	// Upserts reinsert under the same ID so the category links start clean.
	if upsert {
		if _, err = tx.ExecContext(ctx, `DELETE FROM exercises WHERE id = ?`, ex.ID); err != nil {
			return ex, fmt.Errorf("delete exercise: %w", err)
		}
	}

	var result sql.Result
	if upsert {
		result, err = tx.ExecContext(ctx, `
			INSERT INTO exercises (id, owner_id, name, description_markdown, equipment)
			VALUES (?, ?, ?, ?, ?)`,
			ex.ID, ex.OwnerID, ex.Name, ex.DescriptionMarkdown, ex.Equipment)
	} else {
		result, err = tx.ExecContext(ctx, `
			INSERT INTO exercises (owner_id, name, description_markdown, equipment)
			VALUES (?, ?, ?, ?)`,
			ex.OwnerID, ex.Name, ex.DescriptionMarkdown, ex.Equipment)
	}
	if err != nil {
		return ex, fmt.Errorf("insert exercise: %w", err)
	}

	if !upsert {
		var id int64
		id, err = result.LastInsertId()
		if err != nil {
			return ex, fmt.Errorf("get last insert ID: %w", err)
		}
		ex.ID = int(id)
	}

	if err = r.insertCategoryLink(ctx, tx, ex.ID, ex.PrimaryCategory, true); err != nil {
		return ex, fmt.Errorf("insert primary category: %w", err)
	}
	for _, category := range ex.SecondaryCategories {
		if err = r.insertCategoryLink(ctx, tx, ex.ID, category, false); err != nil {
			return ex, fmt.Errorf("insert secondary category: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return ex, fmt.Errorf("commit transaction: %w", err)
	}

	return ex, nil
}

// insertCategoryLink links an exercise to a category by name. The name must
// match a known muscle group; an exercise must never persist without its
// primary category.
func (r *sqliteExerciseRepository) insertCategoryLink(
	ctx context.Context,
	tx *sql.Tx,
	exerciseID int,
	categoryName string,
	isPrimary bool,
) error {
	result, err := tx.ExecContext(ctx, `
		INSERT INTO exercise_categories (exercise_id, category_id, is_primary)
		SELECT ?, id, ? FROM categories WHERE name = ? AND kind = 'muscle'`,
		exerciseID, isPrimary, categoryName)
	if err != nil {
		return fmt.Errorf("insert category link %s: %w", categoryName, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("category link rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("unknown muscle group %q: %w", categoryName, ErrInvalidParameters)
	}
	return nil
}
