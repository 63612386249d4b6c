package workout

import (
	"time"
)

// TrainingGoal is what the user wants to get out of their training.
type TrainingGoal string

const (
	GoalStrength    TrainingGoal = "strength"
	GoalHypertrophy TrainingGoal = "hypertrophy"
	GoalEndurance   TrainingGoal = "endurance"
)

// DisplayName returns the capitalised form used in plan names and tags.
func (g TrainingGoal) DisplayName() string {
	switch g {
	case GoalStrength:
		return "Strength"
	case GoalHypertrophy:
		return "Hypertrophy"
	case GoalEndurance:
		return "Endurance"
	}
	return string(g)
}

// ExperienceLevel classifies how long the user has been training.
type ExperienceLevel string

const (
	ExperienceUntrained ExperienceLevel = "untrained"
	ExperienceTrained   ExperienceLevel = "trained"
	ExperienceAdvanced  ExperienceLevel = "advanced"
)

// WorkoutType is the weekly structure the generator resolves to.
type WorkoutType string

const (
	WorkoutTypeFullBody   WorkoutType = "full_body"
	WorkoutTypeUpperLower WorkoutType = "upper_lower"
	WorkoutTypePushPull   WorkoutType = "push_pull"
)

// PushPullDay selects the session focus within a push/pull/legs split.
type PushPullDay string

const (
	PushDay PushPullDay = "push"
	PullDay PushPullDay = "pull"
	LegsDay PushPullDay = "legs"
)

func (d PushPullDay) DisplayName() string {
	switch d {
	case PushDay:
		return "Push"
	case PullDay:
		return "Pull"
	case LegsDay:
		return "Legs"
	}
	return string(d)
}

// UpperLowerDay selects the session focus within an upper/lower split.
type UpperLowerDay string

const (
	UpperDay UpperLowerDay = "upper"
	LowerDay UpperLowerDay = "lower"
)

func (d UpperLowerDay) DisplayName() string {
	switch d {
	case UpperDay:
		return "Upper"
	case LowerDay:
		return "Lower"
	}
	return string(d)
}

// Equipment a single exercise requires. None means bodyweight.
type Equipment string

const (
	EquipmentNone           Equipment = "None"
	EquipmentBarbell        Equipment = "Barbell"
	EquipmentDumbbell       Equipment = "Dumbbell"
	EquipmentCable          Equipment = "Cable"
	EquipmentMachine        Equipment = "Machine"
	EquipmentResistanceBand Equipment = "ResistanceBand"
	EquipmentKettlebell     Equipment = "Kettlebell"
)

// AllEquipment lists every selectable equipment value in display order.
//
//nolint:gochecknoglobals // static enum listing for forms and validation.
var AllEquipment = []Equipment{
	EquipmentNone,
	EquipmentBarbell,
	EquipmentDumbbell,
	EquipmentCable,
	EquipmentMachine,
	EquipmentResistanceBand,
	EquipmentKettlebell,
}

// MovementType is derived from an exercise's category structure, never stored.
type MovementType string

const (
	MovementCompound  MovementType = "compound"
	MovementIsolation MovementType = "isolation"
)

// Exercise represents a single exercise type, e.g. Squat, Bench Press, etc.
//
// Library exercises have a nil OwnerID; user-authored ones carry the author's
// user id. Invariant: PrimaryCategory never appears in SecondaryCategories.
type Exercise struct {
	ID                  int
	OwnerID             *int
	Name                string
	DescriptionMarkdown string
	Equipment           Equipment
	PrimaryCategory     string
	SecondaryCategories []string
}

// MovementType classifies the exercise as compound when it touches secondary
// muscle groups beyond its primary one.
func (e Exercise) MovementType() MovementType {
	if len(e.SecondaryCategories) > 0 {
		return MovementCompound
	}
	return MovementIsolation
}

// Category is a muscle group or a plan tag.
type Category struct {
	ID   int
	Name string
}

// Set is a single prescribed set within a plan activity.
type Set struct {
	// Order is 1-based and gapless within the parent activity.
	Order int
	// Reps may be 0 for duration-based movements such as planks.
	Reps int
	// WeightKg is nil until the weight back-fill pass assigns it.
	WeightKg *float64
	// RestSeconds is the rest after the set, nil when unprescribed.
	RestSeconds *int
}

// Activity is one exercise slot in a plan with its prescribed sets.
type Activity struct {
	Exercise Exercise
	// Order is 1-based scheduling priority within the plan.
	Order int
	Sets  []Set
}

// Plan is a generated or persisted training plan.
type Plan struct {
	ID          int
	PublicID    string
	UserID      int
	Name        string
	Description string
	Categories  []Category
	Activities  []Activity
	CreatedAt   time.Time
}

// Session is one logged workout, optionally tied to a plan.
type Session struct {
	ID          int
	UserID      int
	PlanID      *int
	StartedAt   time.Time
	CompletedAt *time.Time
	Notes       string
	Sets        []SessionSet
}

// SessionSet is one completed set within a session.
type SessionSet struct {
	ID         int
	ExerciseID int
	SetNumber  int
	Reps       int
	WeightKg   float64
}

// RepMax is a user's one-repetition maximum for an exercise.
type RepMax struct {
	ExerciseID int
	WeightKg   float64
	RecordedAt time.Time
}

// GenerationRequest carries the user's answers from the plan generation form.
type GenerationRequest struct {
	UserID        int
	Goal          TrainingGoal
	Experience    ExperienceLevel
	WeeklyDays    int
	Equipment     []Equipment
	PushPullDay   *PushPullDay
	UpperLowerDay *UpperLowerDay
	// FillWeights back-fills working weights from the user's rep maxes.
	FillWeights bool
}
