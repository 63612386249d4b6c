package workout

import (
	"fmt"
	"slices"
	"strings"

	"github.com/evankoski/liftplan/internal/errors"
)

var (
	// ErrInvalidParameters signals a goal/experience combination outside the
	// training-parameter table.
	ErrInvalidParameters = errors.NewSentinel("invalid training parameters")
	// ErrInvalidWorkoutConfiguration signals a resolved workout type whose
	// required day selector is missing.
	ErrInvalidWorkoutConfiguration = errors.NewSentinel("invalid workout configuration")
)

// selectWorkoutType resolves the weekly structure from experience and
// training frequency. First match wins:
//
// 1. Untrained lifters always train full body for stimulus frequency.
// 2. Trained lifters on two or fewer days split upper/lower.
// 3. Everyone else runs a three-way push/pull/legs split.
func selectWorkoutType(experience ExperienceLevel, weeklyDays int) WorkoutType {
	switch {
	case experience == ExperienceUntrained:
		return WorkoutTypeFullBody
	case experience == ExperienceTrained && weeklyDays <= 2:
		return WorkoutTypeUpperLower
	default:
		return WorkoutTypePushPull
	}
}

// trainingParameters is the per-exercise prescription resolved from goal and
// experience.
type trainingParameters struct {
	sets        int
	reps        int
	restSeconds int
}

// selectParameters looks up the set/rep/rest prescription. Combinations
// outside the table fail with ErrInvalidParameters instead of defaulting.
func selectParameters(goal TrainingGoal, experience ExperienceLevel) (trainingParameters, error) {
	if goal == GoalEndurance {
		switch experience {
		case ExperienceUntrained, ExperienceTrained, ExperienceAdvanced:
			return trainingParameters{sets: 3, reps: 15, restSeconds: 45}, nil
		}
	}

	type key struct {
		goal       TrainingGoal
		experience ExperienceLevel
	}
	table := map[key]trainingParameters{
		{GoalStrength, ExperienceUntrained}:    {sets: 3, reps: 8, restSeconds: 120},
		{GoalStrength, ExperienceTrained}:      {sets: 4, reps: 6, restSeconds: 180},
		{GoalStrength, ExperienceAdvanced}:     {sets: 5, reps: 5, restSeconds: 180},
		{GoalHypertrophy, ExperienceUntrained}: {sets: 3, reps: 12, restSeconds: 60},
		{GoalHypertrophy, ExperienceTrained}:   {sets: 4, reps: 10, restSeconds: 90},
		{GoalHypertrophy, ExperienceAdvanced}:  {sets: 4, reps: 8, restSeconds: 90},
	}

	params, ok := table[key{goal, experience}]
	if !ok {
		return trainingParameters{}, fmt.Errorf("no prescription for goal %q experience %q: %w",
			goal, experience, ErrInvalidParameters)
	}
	return params, nil
}

// assemblePlan runs the full generation pipeline over an exercise pool and
// the known plan-tag categories. It is pure: collaborator data comes in as
// arguments, and the caller persists the result.
func assemblePlan(req GenerationRequest, pool []Exercise, planTags []Category) (Plan, error) {
	pool = filterByEquipment(pool, req.Equipment)

	workoutType := selectWorkoutType(req.Experience, req.WeeklyDays)

	params, err := selectParameters(req.Goal, req.Experience)
	if err != nil {
		return Plan{}, fmt.Errorf("select parameters: %w", err)
	}

	var (
		selected []Exercise
		dayLabel string
	)
	switch workoutType {
	case WorkoutTypeFullBody:
		selected = selectFullBody(pool)
		dayLabel = "Full Body"
	case WorkoutTypeUpperLower:
		if req.UpperLowerDay == nil {
			return Plan{}, fmt.Errorf("upper/lower split requires a day selection: %w",
				ErrInvalidWorkoutConfiguration)
		}
		selected = selectUpperLowerDay(pool, *req.UpperLowerDay, req.Experience)
		dayLabel = req.UpperLowerDay.DisplayName()
	case WorkoutTypePushPull:
		if req.PushPullDay == nil {
			return Plan{}, fmt.Errorf("push/pull/legs split requires a day selection: %w",
				ErrInvalidWorkoutConfiguration)
		}
		selected = selectPushPullDay(pool, *req.PushPullDay, req.Experience)
		dayLabel = req.PushPullDay.DisplayName()
	default:
		return Plan{}, fmt.Errorf("unrecognized workout type %q: %w", workoutType,
			ErrInvalidWorkoutConfiguration)
	}

	activities := buildActivities(selected, params)

	return Plan{
		UserID:      req.UserID,
		Name:        fmt.Sprintf("%s %s Workout", dayLabel, req.Goal.DisplayName()),
		Description: describePlan(req.Goal, workoutType, req.Experience),
		Categories:  selectPlanTags(planTags, workoutType, req.Goal),
		Activities:  activities,
	}, nil
}

// filterByEquipment keeps exercises whose required equipment is in the
// caller's list. Strict membership: bodyweight exercises need None in the
// list too, which the web form always includes.
func filterByEquipment(pool []Exercise, available []Equipment) []Exercise {
	var filtered []Exercise
	for _, ex := range pool {
		if slices.Contains(available, ex.Equipment) {
			filtered = append(filtered, ex)
		}
	}
	return filtered
}

// selectPlanTags picks the category tags matching the resolved workout type
// and goal. Hypertrophy contributes no extra tag.
func selectPlanTags(planTags []Category, workoutType WorkoutType, goal TrainingGoal) []Category {
	wanted := map[string]bool{}
	switch workoutType {
	case WorkoutTypeFullBody:
		wanted["Full Body"] = true
	case WorkoutTypeUpperLower:
		wanted["Upper/Lower"] = true
	case WorkoutTypePushPull:
		wanted["Split Routine"] = true
	}
	switch goal {
	case GoalStrength:
		wanted["Strength"] = true
	case GoalEndurance:
		wanted["Endurance"] = true
	case GoalHypertrophy:
	}

	var selected []Category
	for _, tag := range planTags {
		if wanted[tag.Name] {
			selected = append(selected, tag)
		}
	}
	return selected
}

// describePlan synthesizes the plan description from a goal-focus phrase, a
// structure phrase, and an experience phrase.
func describePlan(goal TrainingGoal, workoutType WorkoutType, experience ExperienceLevel) string {
	var parts []string

	switch goal {
	case GoalStrength:
		parts = append(parts, "Heavy loading focused on building maximal strength.")
	case GoalHypertrophy:
		parts = append(parts, "Moderate loading and volume focused on building muscle.")
	case GoalEndurance:
		parts = append(parts, "Light loading and high repetitions focused on muscular endurance.")
	}

	switch workoutType {
	case WorkoutTypeFullBody:
		parts = append(parts, "Each session trains the whole body.")
	case WorkoutTypeUpperLower:
		parts = append(parts, "Sessions alternate between upper-body and lower-body work.")
	case WorkoutTypePushPull:
		parts = append(parts, "Sessions rotate through push, pull, and leg days.")
	}

	switch experience {
	case ExperienceUntrained:
		parts = append(parts, "Volume is kept modest while movement patterns are learned.")
	case ExperienceTrained:
		parts = append(parts, "Volume is tuned for lifters with an established base.")
	case ExperienceAdvanced:
		parts = append(parts, "Volume is high to keep driving adaptation in experienced lifters.")
	}

	return strings.Join(parts, " ")
}
