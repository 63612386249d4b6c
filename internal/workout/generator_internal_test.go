package workout

import (
	"testing"

	"github.com/evankoski/liftplan/internal/errors"
	"github.com/evankoski/liftplan/internal/ptr"
	"github.com/google/go-cmp/cmp"
)

func TestSelectWorkoutType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		experience ExperienceLevel
		weeklyDays int
		want       WorkoutType
	}{
		{"untrained always trains full body", ExperienceUntrained, 5, WorkoutTypeFullBody},
		{"untrained on one day trains full body", ExperienceUntrained, 1, WorkoutTypeFullBody},
		{"trained on two days splits upper lower", ExperienceTrained, 2, WorkoutTypeUpperLower},
		{"trained on one day splits upper lower", ExperienceTrained, 1, WorkoutTypeUpperLower},
		{"trained on three days runs push pull legs", ExperienceTrained, 3, WorkoutTypePushPull},
		{"advanced on two days runs push pull legs", ExperienceAdvanced, 2, WorkoutTypePushPull},
		{"advanced on six days runs push pull legs", ExperienceAdvanced, 6, WorkoutTypePushPull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := selectWorkoutType(tt.experience, tt.weeklyDays); got != tt.want {
				t.Errorf("selectWorkoutType(%q, %d) = %q, want %q", tt.experience, tt.weeklyDays, got, tt.want)
			}
		})
	}
}

func TestSelectParameters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goal       TrainingGoal
		experience ExperienceLevel
		want       trainingParameters
	}{
		{GoalStrength, ExperienceUntrained, trainingParameters{sets: 3, reps: 8, restSeconds: 120}},
		{GoalStrength, ExperienceTrained, trainingParameters{sets: 4, reps: 6, restSeconds: 180}},
		{GoalStrength, ExperienceAdvanced, trainingParameters{sets: 5, reps: 5, restSeconds: 180}},
		{GoalHypertrophy, ExperienceUntrained, trainingParameters{sets: 3, reps: 12, restSeconds: 60}},
		{GoalHypertrophy, ExperienceTrained, trainingParameters{sets: 4, reps: 10, restSeconds: 90}},
		{GoalHypertrophy, ExperienceAdvanced, trainingParameters{sets: 4, reps: 8, restSeconds: 90}},
		{GoalEndurance, ExperienceUntrained, trainingParameters{sets: 3, reps: 15, restSeconds: 45}},
		{GoalEndurance, ExperienceTrained, trainingParameters{sets: 3, reps: 15, restSeconds: 45}},
		{GoalEndurance, ExperienceAdvanced, trainingParameters{sets: 3, reps: 15, restSeconds: 45}},
	}
	for _, tt := range tests {
		t.Run(string(tt.goal)+"/"+string(tt.experience), func(t *testing.T) {
			t.Parallel()

			got, err := selectParameters(tt.goal, tt.experience)
			if err != nil {
				t.Fatalf("selectParameters: %v", err)
			}
			if got != tt.want {
				t.Errorf("selectParameters(%q, %q) = %+v, want %+v", tt.goal, tt.experience, got, tt.want)
			}
		})
	}

	t.Run("unknown combination fails", func(t *testing.T) {
		t.Parallel()

		_, err := selectParameters(TrainingGoal("powerlifting"), ExperienceTrained)
		if !errors.Is(err, ErrInvalidParameters) {
			t.Errorf("expected ErrInvalidParameters, got %v", err)
		}
	})
}

func TestComplexityScore(t *testing.T) {
	t.Parallel()

	isolation := Exercise{Name: "Cable Fly", PrimaryCategory: "Chest"}
	smallCompound := Exercise{Name: "Dip", PrimaryCategory: "Chest", SecondaryCategories: []string{"Triceps"}}
	bigCompound := Exercise{
		Name:                "Deadlift",
		PrimaryCategory:     "Back",
		SecondaryCategories: []string{"Legs", "Glutes", "Core"},
	}

	if got := complexityScore(isolation); got != 0 {
		t.Errorf("isolation score = %d, want 0", got)
	}
	if got := complexityScore(smallCompound); got != 101 {
		t.Errorf("small compound score = %d, want 101", got)
	}
	if got := complexityScore(bigCompound); got != 103 {
		t.Errorf("big compound score = %d, want 103", got)
	}
	if complexityScore(smallCompound) <= complexityScore(isolation) {
		t.Error("any compound must outrank any isolation")
	}
}

func TestTopByScore(t *testing.T) {
	t.Parallel()

	a := Exercise{ID: 1, Name: "A", PrimaryCategory: "Chest"}
	b := Exercise{ID: 2, Name: "B", PrimaryCategory: "Chest", SecondaryCategories: []string{"Triceps"}}
	c := Exercise{ID: 3, Name: "C", PrimaryCategory: "Chest"}
	pool := []Exercise{a, b, c}

	t.Run("ranks compounds first and keeps ties in pool order", func(t *testing.T) {
		t.Parallel()

		got := topByScore(pool, 3)
		want := []Exercise{b, a, c}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("topByScore mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("truncates to n", func(t *testing.T) {
		t.Parallel()

		if got := topByScore(pool, 2); len(got) != 2 {
			t.Errorf("len = %d, want 2", len(got))
		}
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		t.Parallel()

		input := []Exercise{a, b, c}
		topByScore(input, 3)
		if diff := cmp.Diff([]Exercise{a, b, c}, input); diff != "" {
			t.Errorf("input mutated (-want +got):\n%s", diff)
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		first := topByScore(pool, 3)
		second := topByScore(pool, 3)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("repeat runs disagree (-first +second):\n%s", diff)
		}
	})
}

// testPool is a pool wide enough to satisfy every selector quota.
func testPool() []Exercise {
	return []Exercise{
		{ID: 1, Name: "Squat", Equipment: EquipmentBarbell, PrimaryCategory: "Legs",
			SecondaryCategories: []string{"Glutes", "Core"}},
		{ID: 2, Name: "Romanian Deadlift", Equipment: EquipmentBarbell, PrimaryCategory: "Legs",
			SecondaryCategories: []string{"Glutes"}},
		{ID: 3, Name: "Leg Extension", Equipment: EquipmentMachine, PrimaryCategory: "Legs"},
		{ID: 4, Name: "Bench Press", Equipment: EquipmentBarbell, PrimaryCategory: "Chest",
			SecondaryCategories: []string{"Triceps", "Shoulders"}},
		{ID: 5, Name: "Cable Fly", Equipment: EquipmentCable, PrimaryCategory: "Chest"},
		{ID: 6, Name: "Deadlift", Equipment: EquipmentBarbell, PrimaryCategory: "Back",
			SecondaryCategories: []string{"Legs", "Glutes", "Core"}},
		{ID: 7, Name: "Pull-Up", Equipment: EquipmentNone, PrimaryCategory: "Back",
			SecondaryCategories: []string{"Biceps"}},
		{ID: 8, Name: "Seated Row", Equipment: EquipmentCable, PrimaryCategory: "Back",
			SecondaryCategories: []string{"Biceps"}},
		{ID: 9, Name: "Overhead Press", Equipment: EquipmentBarbell, PrimaryCategory: "Shoulders",
			SecondaryCategories: []string{"Triceps"}},
		{ID: 10, Name: "Lateral Raise", Equipment: EquipmentDumbbell, PrimaryCategory: "Shoulders"},
		{ID: 11, Name: "Barbell Curl", Equipment: EquipmentBarbell, PrimaryCategory: "Biceps"},
		{ID: 12, Name: "Triceps Pushdown", Equipment: EquipmentCable, PrimaryCategory: "Triceps"},
		{ID: 13, Name: "Plank", Equipment: EquipmentNone, PrimaryCategory: "Core"},
		{ID: 14, Name: "Hip Thrust", Equipment: EquipmentBarbell, PrimaryCategory: "Glutes"},
	}
}

func namesOf(exercises []Exercise) []string {
	names := make([]string, 0, len(exercises))
	for _, ex := range exercises {
		names = append(names, ex.Name)
	}
	return names
}

func TestSelectFullBody(t *testing.T) {
	t.Parallel()

	t.Run("draws the fixed per-group quotas", func(t *testing.T) {
		t.Parallel()

		got := namesOf(selectFullBody(testPool()))
		want := []string{
			"Squat", "Romanian Deadlift",
			"Bench Press",
			"Deadlift", "Pull-Up",
			"Overhead Press",
			"Barbell Curl",
			"Triceps Pushdown",
			"Plank",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("full body selection mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("sparse pool yields fewer exercises without failing", func(t *testing.T) {
		t.Parallel()

		pool := []Exercise{
			{ID: 1, Name: "Squat", PrimaryCategory: "Legs", SecondaryCategories: []string{"Glutes"}},
			{ID: 13, Name: "Plank", PrimaryCategory: "Core"},
		}
		got := namesOf(selectFullBody(pool))
		want := []string{"Squat", "Plank"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("sparse selection mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestSelectPushPullDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		day        PushPullDay
		experience ExperienceLevel
		want       []string
	}{
		{
			name:       "untrained push day",
			day:        PushDay,
			experience: ExperienceUntrained,
			// One chest compound exists, so the quota of three goes unfilled.
			want: []string{"Bench Press", "Triceps Pushdown"},
		},
		{
			name:       "trained pull day",
			day:        PullDay,
			experience: ExperienceTrained,
			want:       []string{"Deadlift", "Pull-Up", "Seated Row", "Barbell Curl"},
		},
		{
			name:       "advanced legs day",
			day:        LegsDay,
			experience: ExperienceAdvanced,
			want:       []string{"Squat", "Romanian Deadlift", "Plank"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := namesOf(selectPushPullDay(testPool(), tt.day, tt.experience))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("selection mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelectUpperLowerDay(t *testing.T) {
	t.Parallel()

	t.Run("upper day splits compounds between chest and back", func(t *testing.T) {
		t.Parallel()

		got := namesOf(selectUpperLowerDay(testPool(), UpperDay, ExperienceTrained))
		// Trained quota is four compounds split between chest and back. Chest
		// has a single compound, so its second slot stays empty rather than
		// falling back to an isolation.
		want := []string{
			"Bench Press",
			"Deadlift", "Pull-Up",
			"Overhead Press",
			"Triceps Pushdown",
			"Barbell Curl",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("upper day selection mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("lower day spends the compound quota on legs", func(t *testing.T) {
		t.Parallel()

		got := namesOf(selectUpperLowerDay(testPool(), LowerDay, ExperienceUntrained))
		want := []string{"Squat", "Romanian Deadlift", "Plank", "Hip Thrust"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("lower day selection mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestBuildActivities(t *testing.T) {
	t.Parallel()

	pool := []Exercise{
		{ID: 5, Name: "Cable Fly", PrimaryCategory: "Chest"},
		{ID: 4, Name: "Bench Press", PrimaryCategory: "Chest",
			SecondaryCategories: []string{"Triceps", "Shoulders"}},
	}
	params := trainingParameters{sets: 3, reps: 8, restSeconds: 120}

	activities := buildActivities(pool, params)

	if len(activities) != 2 {
		t.Fatalf("len(activities) = %d, want 2", len(activities))
	}
	if activities[0].Exercise.Name != "Bench Press" {
		t.Errorf("first activity = %q, want the compound first", activities[0].Exercise.Name)
	}
	for i, activity := range activities {
		if activity.Order != i+1 {
			t.Errorf("activity %d order = %d, want %d", i, activity.Order, i+1)
		}
		if len(activity.Sets) != params.sets {
			t.Fatalf("activity %d has %d sets, want %d", i, len(activity.Sets), params.sets)
		}
		for j, set := range activity.Sets {
			if set.Order != j+1 {
				t.Errorf("set order = %d, want %d", set.Order, j+1)
			}
			if set.Reps != params.reps {
				t.Errorf("set reps = %d, want %d", set.Reps, params.reps)
			}
			if set.WeightKg != nil {
				t.Error("generated sets must not carry weights")
			}
			if set.RestSeconds == nil || *set.RestSeconds != params.restSeconds {
				t.Errorf("set rest = %v, want %d", set.RestSeconds, params.restSeconds)
			}
		}
	}
}

func TestApplyWeights(t *testing.T) {
	t.Parallel()

	newPlan := func() Plan {
		return Plan{
			Activities: []Activity{
				{
					Exercise: Exercise{ID: 1, Name: "Squat", Equipment: EquipmentBarbell},
					Order:    1,
					Sets:     []Set{{Order: 1, Reps: 5}, {Order: 2, Reps: 5}, {Order: 3, Reps: 5}},
				},
				{
					Exercise: Exercise{ID: 7, Name: "Pull-Up", Equipment: EquipmentNone},
					Order:    2,
					Sets:     []Set{{Order: 1, Reps: 5}},
				},
				{
					Exercise: Exercise{ID: 11, Name: "Barbell Curl", Equipment: EquipmentBarbell},
					Order:    3,
					Sets:     []Set{{Order: 1, Reps: 5}},
				},
			},
		}
	}

	t.Run("fills every set from the rep max", func(t *testing.T) {
		t.Parallel()

		plan := newPlan()
		applyWeights(&plan, map[int]float64{1: 100}, GoalStrength, ExperienceAdvanced)

		for _, set := range plan.Activities[0].Sets {
			if set.WeightKg == nil || *set.WeightKg != 85 {
				t.Errorf("squat set weight = %v, want 85", set.WeightKg)
			}
		}
	})

	t.Run("rounds to loadable increments", func(t *testing.T) {
		t.Parallel()

		plan := newPlan()
		// 93 kg at 75 percent is 69.75, which rounds to 70.
		applyWeights(&plan, map[int]float64{1: 93}, GoalStrength, ExperienceTrained)

		got := plan.Activities[0].Sets[0].WeightKg
		if got == nil || *got != 70 {
			t.Errorf("weight = %v, want 70", got)
		}
	})

	t.Run("skips bodyweight exercises", func(t *testing.T) {
		t.Parallel()

		plan := newPlan()
		applyWeights(&plan, map[int]float64{7: 120}, GoalStrength, ExperienceTrained)

		if got := plan.Activities[1].Sets[0].WeightKg; got != nil {
			t.Errorf("bodyweight weight = %v, want nil", *got)
		}
	})

	t.Run("skips exercises without a positive rep max", func(t *testing.T) {
		t.Parallel()

		plan := newPlan()
		applyWeights(&plan, map[int]float64{1: 100, 11: -5}, GoalStrength, ExperienceTrained)

		if got := plan.Activities[2].Sets[0].WeightKg; got != nil {
			t.Errorf("curl weight = %v, want nil", *got)
		}
	})

	t.Run("no rep maxes leaves the plan untouched", func(t *testing.T) {
		t.Parallel()

		plan := newPlan()
		want := newPlan()
		applyWeights(&plan, nil, GoalStrength, ExperienceTrained)

		if diff := cmp.Diff(want, plan); diff != "" {
			t.Errorf("plan changed (-want +got):\n%s", diff)
		}
	})
}

func TestAssemblePlan(t *testing.T) {
	t.Parallel()

	planTags := []Category{
		{ID: 9, Name: "Full Body"},
		{ID: 10, Name: "Upper/Lower"},
		{ID: 11, Name: "Split Routine"},
		{ID: 12, Name: "Strength"},
		{ID: 13, Name: "Endurance"},
	}

	t.Run("untrained full body strength", func(t *testing.T) {
		t.Parallel()

		plan, err := assemblePlan(GenerationRequest{
			UserID:     1,
			Goal:       GoalStrength,
			Experience: ExperienceUntrained,
			WeeklyDays: 3,
			Equipment:  AllEquipment,
		}, testPool(), planTags)
		if err != nil {
			t.Fatalf("assemblePlan: %v", err)
		}

		if plan.Name != "Full Body Strength Workout" {
			t.Errorf("name = %q", plan.Name)
		}
		wantTags := []Category{{ID: 9, Name: "Full Body"}, {ID: 12, Name: "Strength"}}
		if diff := cmp.Diff(wantTags, plan.Categories); diff != "" {
			t.Errorf("tags mismatch (-want +got):\n%s", diff)
		}
		if len(plan.Activities) != 9 {
			t.Errorf("activities = %d, want 9", len(plan.Activities))
		}
		for i, activity := range plan.Activities {
			if activity.Order != i+1 {
				t.Errorf("activity %d order = %d", i, activity.Order)
			}
			if len(activity.Sets) != 3 {
				t.Errorf("activity %d sets = %d, want 3", i, len(activity.Sets))
			}
		}
		if plan.Description == "" {
			t.Error("description is empty")
		}
	})

	t.Run("trained push day hypertrophy", func(t *testing.T) {
		t.Parallel()

		plan, err := assemblePlan(GenerationRequest{
			UserID:      1,
			Goal:        GoalHypertrophy,
			Experience:  ExperienceTrained,
			WeeklyDays:  4,
			Equipment:   AllEquipment,
			PushPullDay: ptr.Ref(PushDay),
		}, testPool(), planTags)
		if err != nil {
			t.Fatalf("assemblePlan: %v", err)
		}

		if plan.Name != "Push Hypertrophy Workout" {
			t.Errorf("name = %q", plan.Name)
		}
		// Hypertrophy contributes no goal tag.
		wantTags := []Category{{ID: 11, Name: "Split Routine"}}
		if diff := cmp.Diff(wantTags, plan.Categories); diff != "" {
			t.Errorf("tags mismatch (-want +got):\n%s", diff)
		}
		for _, activity := range plan.Activities {
			for _, set := range activity.Sets {
				if set.Reps != 10 {
					t.Errorf("reps = %d, want 10", set.Reps)
				}
				if set.RestSeconds == nil || *set.RestSeconds != 90 {
					t.Errorf("rest = %v, want 90", set.RestSeconds)
				}
			}
		}
	})

	t.Run("equipment filter constrains the pool", func(t *testing.T) {
		t.Parallel()

		plan, err := assemblePlan(GenerationRequest{
			UserID:     1,
			Goal:       GoalEndurance,
			Experience: ExperienceUntrained,
			WeeklyDays: 2,
			Equipment:  []Equipment{EquipmentNone},
		}, testPool(), planTags)
		if err != nil {
			t.Fatalf("assemblePlan: %v", err)
		}

		for _, activity := range plan.Activities {
			if activity.Exercise.Equipment != EquipmentNone {
				t.Errorf("exercise %q needs %q, want bodyweight only",
					activity.Exercise.Name, activity.Exercise.Equipment)
			}
		}
	})

	t.Run("upper lower without a day selection fails", func(t *testing.T) {
		t.Parallel()

		_, err := assemblePlan(GenerationRequest{
			UserID:     1,
			Goal:       GoalStrength,
			Experience: ExperienceTrained,
			WeeklyDays: 2,
			Equipment:  AllEquipment,
		}, testPool(), planTags)
		if !errors.Is(err, ErrInvalidWorkoutConfiguration) {
			t.Errorf("expected ErrInvalidWorkoutConfiguration, got %v", err)
		}
	})

	t.Run("push pull without a day selection fails", func(t *testing.T) {
		t.Parallel()

		_, err := assemblePlan(GenerationRequest{
			UserID:     1,
			Goal:       GoalStrength,
			Experience: ExperienceAdvanced,
			WeeklyDays: 5,
			Equipment:  AllEquipment,
		}, testPool(), planTags)
		if !errors.Is(err, ErrInvalidWorkoutConfiguration) {
			t.Errorf("expected ErrInvalidWorkoutConfiguration, got %v", err)
		}
	})

	t.Run("invalid goal surfaces the parameter error", func(t *testing.T) {
		t.Parallel()

		_, err := assemblePlan(GenerationRequest{
			UserID:     1,
			Goal:       TrainingGoal("cardio"),
			Experience: ExperienceUntrained,
			WeeklyDays: 3,
			Equipment:  AllEquipment,
		}, testPool(), planTags)
		if !errors.Is(err, ErrInvalidParameters) {
			t.Errorf("expected ErrInvalidParameters, got %v", err)
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		req := GenerationRequest{
			UserID:      1,
			Goal:        GoalStrength,
			Experience:  ExperienceAdvanced,
			WeeklyDays:  5,
			Equipment:   AllEquipment,
			PushPullDay: ptr.Ref(PullDay),
		}
		first, err := assemblePlan(req, testPool(), planTags)
		if err != nil {
			t.Fatalf("assemblePlan: %v", err)
		}
		second, err := assemblePlan(req, testPool(), planTags)
		if err != nil {
			t.Fatalf("assemblePlan: %v", err)
		}
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("repeat runs disagree (-first +second):\n%s", diff)
		}
	})
}
