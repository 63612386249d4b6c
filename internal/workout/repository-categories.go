package workout

import (
	"context"
	"errors"
	"fmt"
)

// sqliteCategoryRepository reads the seeded category table.
type sqliteCategoryRepository struct {
	baseRepository
}

// ListPlanTags returns every plan-tag category.
func (r *sqliteCategoryRepository) ListPlanTags(ctx context.Context) ([]Category, error) {
	return r.listByKind(ctx, "plan_tag")
}

// ListMuscleGroups returns every muscle-group category.
func (r *sqliteCategoryRepository) ListMuscleGroups(ctx context.Context) ([]Category, error) {
	return r.listByKind(ctx, "muscle")
}

func (r *sqliteCategoryRepository) listByKind(ctx context.Context, kind string) (_ []Category, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, name
		FROM categories
		WHERE kind = ?
		ORDER BY id`, kind)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
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
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return categories, nil
}
