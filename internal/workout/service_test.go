package workout_test

import (
	"context"
	"testing"

	"github.com/evankoski/liftplan/internal/errors"
	"github.com/evankoski/liftplan/internal/ptr"
	"github.com/evankoski/liftplan/internal/sqlite"
	"github.com/evankoski/liftplan/internal/testhelpers"
	"github.com/evankoski/liftplan/internal/workout"
	"github.com/google/go-cmp/cmp"
)

func newTestService(t *testing.T) (*workout.Service, *sqlite.Database) {
	t.Helper()

	ctx := context.Background()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Errorf("close database: %v", closeErr)
		}
	})

	return workout.NewService(db, logger), db
}

// createTestUser inserts a user row so foreign keys resolve.
func createTestUser(t *testing.T, db *sqlite.Database, email string) int {
	t.Helper()

	result, err := db.ReadWrite.ExecContext(context.Background(), `
		INSERT INTO users (email, password_hash, display_name)
		VALUES (?, ?, ?)`, email, []byte("x"), "Test User")
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("last insert id: %v", err)
	}
	return int(id)
}

func TestService_CreateExerciseUnknownCategory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, db := newTestService(t)
	userID := createTestUser(t, db, "lifter@example.com")

	before, err := svc.ListExercises(ctx, userID)
	if err != nil {
		t.Fatalf("list exercises: %v", err)
	}

	_, err = svc.CreateExercise(ctx, userID, workout.Exercise{
		Name:            "Imaginary Press",
		Equipment:       workout.EquipmentBarbell,
		PrimaryCategory: "Nonexistent Muscle",
	})
	if !errors.Is(err, workout.ErrInvalidParameters) {
		t.Errorf("unknown primary category: expected ErrInvalidParameters, got %v", err)
	}

	_, err = svc.CreateExercise(ctx, userID, workout.Exercise{
		Name:                "Imaginary Row",
		Equipment:           workout.EquipmentBarbell,
		PrimaryCategory:     "Back",
		SecondaryCategories: []string{"Nonexistent Muscle"},
	})
	if !errors.Is(err, workout.ErrInvalidParameters) {
		t.Errorf("unknown secondary category: expected ErrInvalidParameters, got %v", err)
	}

	// The rejected writes must roll back, never leaving an exercise without
	// its category links.
	after, err := svc.ListExercises(ctx, userID)
	if err != nil {
		t.Fatalf("list exercises: %v", err)
	}
	if len(after) != len(before) {
		t.Errorf("catalog grew from %d to %d exercises", len(before), len(after))
	}
	for _, ex := range after {
		if ex.PrimaryCategory == "" {
			t.Errorf("exercise %q persisted with no primary category", ex.Name)
		}
	}
}

func TestService_ExerciseCRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, db := newTestService(t)
	userID := createTestUser(t, db, "lifter@example.com")
	otherID := createTestUser(t, db, "other@example.com")

	created, err := svc.CreateExercise(ctx, userID, workout.Exercise{
		Name:                "Zercher Squat",
		DescriptionMarkdown: "Front-loaded squat held in the *crooks of the elbows*.",
		Equipment:           workout.EquipmentBarbell,
		PrimaryCategory:     "Legs",
		SecondaryCategories: []string{"Core", "Legs"},
	})
	if err != nil {
		t.Fatalf("create exercise: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("created exercise has no id")
	}
	if created.OwnerID == nil || *created.OwnerID != userID {
		t.Errorf("owner = %v, want %d", created.OwnerID, userID)
	}

	got, err := svc.GetExercise(ctx, userID, created.ID)
	if err != nil {
		t.Fatalf("get exercise: %v", err)
	}
	// The primary category must not be duplicated into the secondaries.
	if diff := cmp.Diff([]string{"Core"}, got.SecondaryCategories); diff != "" {
		t.Errorf("secondaries mismatch (-want +got):\n%s", diff)
	}
	if got.PrimaryCategory != "Legs" {
		t.Errorf("primary = %q, want Legs", got.PrimaryCategory)
	}

	t.Run("private exercises stay invisible to other users", func(t *testing.T) {
		if _, err := svc.GetExercise(ctx, otherID, created.ID); !errors.Is(err, workout.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}

		visible, err := svc.ListExercises(ctx, otherID)
		if err != nil {
			t.Fatalf("list exercises: %v", err)
		}
		for _, ex := range visible {
			if ex.ID == created.ID {
				t.Error("private exercise leaked into another user's list")
			}
		}
	})

	t.Run("library exercises are visible to everyone", func(t *testing.T) {
		visible, err := svc.ListExercises(ctx, otherID)
		if err != nil {
			t.Fatalf("list exercises: %v", err)
		}
		if len(visible) == 0 {
			t.Fatal("expected seeded library exercises")
		}
		for _, ex := range visible {
			if ex.OwnerID != nil {
				t.Errorf("exercise %q has owner %d, want library only", ex.Name, *ex.OwnerID)
			}
		}
	})

	t.Run("update rewrites the aggregate", func(t *testing.T) {
		updated := created
		updated.Name = "Zercher Squat (Paused)"
		updated.SecondaryCategories = []string{"Core", "Glutes"}
		if err := svc.UpdateExercise(ctx, userID, updated); err != nil {
			t.Fatalf("update exercise: %v", err)
		}

		got, err := svc.GetExercise(ctx, userID, created.ID)
		if err != nil {
			t.Fatalf("get exercise: %v", err)
		}
		if got.Name != "Zercher Squat (Paused)" {
			t.Errorf("name = %q", got.Name)
		}
		if diff := cmp.Diff([]string{"Core", "Glutes"}, got.SecondaryCategories); diff != "" {
			t.Errorf("secondaries mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("only the owner may update", func(t *testing.T) {
		ex := created
		ex.Name = "Hijacked"
		if err := svc.UpdateExercise(ctx, otherID, ex); !errors.Is(err, workout.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("only the owner may delete", func(t *testing.T) {
		if err := svc.DeleteExercise(ctx, otherID, created.ID); !errors.Is(err, workout.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if err := svc.DeleteExercise(ctx, userID, created.ID); err != nil {
			t.Fatalf("delete exercise: %v", err)
		}
		if _, err := svc.GetExercise(ctx, userID, created.ID); !errors.Is(err, workout.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestService_GeneratePlan(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, db := newTestService(t)
	userID := createTestUser(t, db, "lifter@example.com")

	plan, err := svc.GeneratePlan(ctx, workout.GenerationRequest{
		UserID:     userID,
		Goal:       workout.GoalStrength,
		Experience: workout.ExperienceUntrained,
		WeeklyDays: 3,
		Equipment:  workout.AllEquipment,
	})
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}

	if plan.ID == 0 || plan.PublicID == "" {
		t.Fatalf("plan not persisted: id=%d publicID=%q", plan.ID, plan.PublicID)
	}
	if plan.Name != "Full Body Strength Workout" {
		t.Errorf("name = %q", plan.Name)
	}
	if len(plan.Activities) == 0 {
		t.Fatal("plan has no activities")
	}

	t.Run("round-trips through the share id", func(t *testing.T) {
		loaded, err := svc.GetPlan(ctx, plan.PublicID)
		if err != nil {
			t.Fatalf("get plan: %v", err)
		}
		if loaded.Name != plan.Name {
			t.Errorf("name = %q, want %q", loaded.Name, plan.Name)
		}
		if len(loaded.Activities) != len(plan.Activities) {
			t.Fatalf("activities = %d, want %d", len(loaded.Activities), len(plan.Activities))
		}
		for i, activity := range loaded.Activities {
			if activity.Order != plan.Activities[i].Order {
				t.Errorf("activity %d order = %d, want %d", i, activity.Order, plan.Activities[i].Order)
			}
			if activity.Exercise.Name != plan.Activities[i].Exercise.Name {
				t.Errorf("activity %d exercise = %q, want %q",
					i, activity.Exercise.Name, plan.Activities[i].Exercise.Name)
			}
			if len(activity.Sets) != len(plan.Activities[i].Sets) {
				t.Errorf("activity %d sets = %d, want %d",
					i, len(activity.Sets), len(plan.Activities[i].Sets))
			}
		}
		tagNames := make([]string, 0, len(loaded.Categories))
		for _, tag := range loaded.Categories {
			tagNames = append(tagNames, tag.Name)
		}
		if diff := cmp.Diff([]string{"Full Body", "Strength"}, tagNames); diff != "" {
			t.Errorf("tags mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("appears in the owner's plan list", func(t *testing.T) {
		plans, err := svc.ListPlans(ctx, userID)
		if err != nil {
			t.Fatalf("list plans: %v", err)
		}
		if len(plans) != 1 || plans[0].ID != plan.ID {
			t.Fatalf("plans = %+v, want the generated plan", plans)
		}
	})

	t.Run("delete removes the plan", func(t *testing.T) {
		otherID := createTestUser(t, db, "other@example.com")
		if err := svc.DeletePlan(ctx, otherID, plan.ID); !errors.Is(err, workout.ErrNotFound) {
			t.Errorf("expected ErrNotFound for foreign delete, got %v", err)
		}
		if err := svc.DeletePlan(ctx, userID, plan.ID); err != nil {
			t.Fatalf("delete plan: %v", err)
		}
		if _, err := svc.GetPlan(ctx, plan.PublicID); !errors.Is(err, workout.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestService_GeneratePlanWithWeights(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, db := newTestService(t)
	userID := createTestUser(t, db, "lifter@example.com")

	exercises, err := svc.ListExercises(ctx, userID)
	if err != nil {
		t.Fatalf("list exercises: %v", err)
	}
	var squatID int
	for _, ex := range exercises {
		if ex.Name == "Barbell Back Squat" {
			squatID = ex.ID
		}
	}
	if squatID == 0 {
		t.Fatal("seeded squat not found")
	}

	if err := svc.UpsertRepMax(ctx, userID, squatID, 100); err != nil {
		t.Fatalf("upsert rep max: %v", err)
	}

	plan, err := svc.GeneratePlan(ctx, workout.GenerationRequest{
		UserID:      userID,
		Goal:        workout.GoalStrength,
		Experience:  workout.ExperienceAdvanced,
		WeeklyDays:  5,
		Equipment:   workout.AllEquipment,
		PushPullDay: ptr.Ref(workout.LegsDay),
		FillWeights: true,
	})
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}

	var squatSeen bool
	for _, activity := range plan.Activities {
		if activity.Exercise.ID != squatID {
			continue
		}
		squatSeen = true
		for _, set := range activity.Sets {
			// 100 kg at the advanced strength percentage of 0.85.
			if set.WeightKg == nil || *set.WeightKg != 85 {
				t.Errorf("squat set weight = %v, want 85", set.WeightKg)
			}
		}
	}
	if !squatSeen {
		t.Fatal("squat missing from legs day")
	}
}

func TestService_Sessions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, db := newTestService(t)
	userID := createTestUser(t, db, "lifter@example.com")

	exercises, err := svc.ListExercises(ctx, userID)
	if err != nil {
		t.Fatalf("list exercises: %v", err)
	}
	if len(exercises) == 0 {
		t.Fatal("expected seeded exercises")
	}
	exerciseID := exercises[0].ID

	session, err := svc.StartSession(ctx, userID, nil)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if session.CompletedAt != nil {
		t.Error("new session must be open")
	}

	if err = svc.LogSet(ctx, userID, session.ID, exerciseID, 8, 60); err != nil {
		t.Fatalf("log set: %v", err)
	}
	if err = svc.LogSet(ctx, userID, session.ID, exerciseID, 8, 62.5); err != nil {
		t.Fatalf("log set: %v", err)
	}

	got, err := svc.GetSession(ctx, userID, session.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if len(got.Sets) != 2 {
		t.Fatalf("sets = %d, want 2", len(got.Sets))
	}
	if got.Sets[0].SetNumber != 1 || got.Sets[1].SetNumber != 2 {
		t.Errorf("set numbers = %d, %d, want 1, 2", got.Sets[0].SetNumber, got.Sets[1].SetNumber)
	}

	if err = svc.CompleteSession(ctx, userID, session.ID, "felt strong"); err != nil {
		t.Fatalf("complete session: %v", err)
	}

	got, err = svc.GetSession(ctx, userID, session.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.CompletedAt == nil {
		t.Error("session still open after completion")
	}
	if got.Notes != "felt strong" {
		t.Errorf("notes = %q", got.Notes)
	}

	t.Run("logging into a completed session fails", func(t *testing.T) {
		if err := svc.LogSet(ctx, userID, session.ID, exerciseID, 8, 65); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("sessions are scoped to their owner", func(t *testing.T) {
		otherID := createTestUser(t, db, "other@example.com")
		if _, err := svc.GetSession(ctx, otherID, session.ID); !errors.Is(err, workout.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("history lists the session", func(t *testing.T) {
		sessions, err := svc.ListSessions(ctx, userID)
		if err != nil {
			t.Fatalf("list sessions: %v", err)
		}
		if len(sessions) != 1 || sessions[0].ID != session.ID {
			t.Fatalf("sessions = %+v, want one", sessions)
		}
		if len(sessions[0].Sets) != 2 {
			t.Errorf("history sets = %d, want 2", len(sessions[0].Sets))
		}
	})

	t.Run("progress series takes the heaviest set per day", func(t *testing.T) {
		series, err := svc.ExerciseProgressSeries(ctx, userID, exerciseID)
		if err != nil {
			t.Fatalf("progress series: %v", err)
		}
		if len(series) != 1 {
			t.Fatalf("series = %+v, want one point", series)
		}
		if series[0].WeightKg != 62.5 {
			t.Errorf("best weight = %v, want 62.5", series[0].WeightKg)
		}
	})
}

func TestService_RepMaxes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, db := newTestService(t)
	userID := createTestUser(t, db, "lifter@example.com")

	exercises, err := svc.ListExercises(ctx, userID)
	if err != nil {
		t.Fatalf("list exercises: %v", err)
	}
	exerciseID := exercises[0].ID

	if err = svc.UpsertRepMax(ctx, userID, exerciseID, 90); err != nil {
		t.Fatalf("upsert rep max: %v", err)
	}
	// Upserting again replaces rather than duplicates.
	if err = svc.UpsertRepMax(ctx, userID, exerciseID, 95); err != nil {
		t.Fatalf("upsert rep max: %v", err)
	}

	repMaxes, err := svc.ListRepMaxes(ctx, userID)
	if err != nil {
		t.Fatalf("list rep maxes: %v", err)
	}
	if len(repMaxes) != 1 {
		t.Fatalf("rep maxes = %d, want 1", len(repMaxes))
	}
	if repMaxes[0].WeightKg != 95 {
		t.Errorf("weight = %v, want 95", repMaxes[0].WeightKg)
	}

	t.Run("rejects non-positive weights", func(t *testing.T) {
		if err := svc.UpsertRepMax(ctx, userID, exerciseID, 0); !errors.Is(err, workout.ErrInvalidParameters) {
			t.Errorf("expected ErrInvalidParameters, got %v", err)
		}
	})
}
