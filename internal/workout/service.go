// Package workout implements the fitness domain: the exercise catalog,
// training plans and their generator, logged sessions, and rep maxes.
package workout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/evankoski/liftplan/internal/errors"
	"github.com/evankoski/liftplan/internal/sqlite"
	"golang.org/x/sync/errgroup"
)

// Service handles the business logic for workout management.
type Service struct {
	repo   *repository
	logger *slog.Logger
}

// NewService creates a new workout service.
func NewService(db *sqlite.Database, logger *slog.Logger) *Service {
	return &Service{
		repo:   newRepository(db, logger),
		logger: logger,
	}
}

// GeneratePlan runs the plan generator over the user's visible exercises and
// persists the result.
func (s *Service) GeneratePlan(ctx context.Context, req GenerationRequest) (Plan, error) {
	var (
		pool     []Exercise
		planTags []Category
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if pool, err = s.repo.exercises.ListVisible(gCtx, req.UserID); err != nil {
			return fmt.Errorf("list visible exercises: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if planTags, err = s.repo.categories.ListPlanTags(gCtx); err != nil {
			return fmt.Errorf("list plan tags: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Plan{}, err
	}

	plan, err := assemblePlan(req, pool, planTags)
	if err != nil {
		return Plan{}, fmt.Errorf("assemble plan: %w", err)
	}

	if req.FillWeights {
		var repMaxes map[int]float64
		if repMaxes, err = s.repo.repMaxes.MapForUser(ctx, req.UserID); err != nil {
			return Plan{}, fmt.Errorf("map rep maxes: %w", err)
		}
		applyWeights(&plan, repMaxes, req.Goal, req.Experience)
	}

	if plan, err = s.repo.plans.Create(ctx, plan); err != nil {
		return Plan{}, fmt.Errorf("create plan: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "generated plan",
		slog.Int("user_id", req.UserID),
		slog.String("plan", plan.Name),
		slog.Int("activities", len(plan.Activities)))

	return plan, nil
}

// ListExercises returns the library catalog plus the user's own exercises.
func (s *Service) ListExercises(ctx context.Context, userID int) ([]Exercise, error) {
	exercises, err := s.repo.exercises.ListVisible(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	return exercises, nil
}

// GetExercise retrieves an exercise visible to the user.
func (s *Service) GetExercise(ctx context.Context, userID, exerciseID int) (Exercise, error) {
	exercise, err := s.repo.exercises.Get(ctx, exerciseID)
	if err != nil {
		return Exercise{}, fmt.Errorf("get exercise: %w", err)
	}
	if exercise.OwnerID != nil && *exercise.OwnerID != userID {
		return Exercise{}, fmt.Errorf("exercise %d: %w", exerciseID, ErrNotFound)
	}
	return exercise, nil
}

// CreateExercise adds a user-authored exercise to the catalog.
func (s *Service) CreateExercise(ctx context.Context, userID int, ex Exercise) (Exercise, error) {
	ex.OwnerID = &userID
	ex = normalizeCategories(ex)
	created, err := s.repo.exercises.Create(ctx, ex)
	if err != nil {
		return Exercise{}, fmt.Errorf("create exercise: %w", err)
	}
	return created, nil
}

// UpdateExercise updates an exercise the user owns.
func (s *Service) UpdateExercise(ctx context.Context, userID int, ex Exercise) error {
	if err := s.repo.exercises.Update(ctx, ex.ID, func(oldEx *Exercise) (bool, error) {
		if oldEx.OwnerID == nil || *oldEx.OwnerID != userID {
			return false, fmt.Errorf("exercise %d: %w", ex.ID, ErrNotFound)
		}
		updated := normalizeCategories(ex)
		updated.OwnerID = oldEx.OwnerID
		*oldEx = updated
		return true, nil
	}); err != nil {
		return fmt.Errorf("update exercise: %w", err)
	}
	return nil
}

// DeleteExercise removes an exercise the user owns.
func (s *Service) DeleteExercise(ctx context.Context, userID, exerciseID int) error {
	exercise, err := s.repo.exercises.Get(ctx, exerciseID)
	if err != nil {
		return fmt.Errorf("get exercise: %w", err)
	}
	if exercise.OwnerID == nil || *exercise.OwnerID != userID {
		return fmt.Errorf("exercise %d: %w", exerciseID, ErrNotFound)
	}
	if err = s.repo.exercises.Delete(ctx, exerciseID); err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	return nil
}

// ListMuscleGroups returns the seeded muscle-group categories.
func (s *Service) ListMuscleGroups(ctx context.Context) ([]Category, error) {
	groups, err := s.repo.categories.ListMuscleGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list muscle groups: %w", err)
	}
	return groups, nil
}

// ListPlans returns the user's plan summaries, newest first.
func (s *Service) ListPlans(ctx context.Context, userID int) ([]Plan, error) {
	plans, err := s.repo.plans.ListSummaries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

// GetPlan loads the full plan addressed by its public share id. Plans are
// shareable by URL, so any public id resolves regardless of owner.
func (s *Service) GetPlan(ctx context.Context, publicID string) (Plan, error) {
	plan, err := s.repo.plans.GetByPublicID(ctx, publicID)
	if err != nil {
		return Plan{}, fmt.Errorf("get plan: %w", err)
	}
	return plan, nil
}

// DeletePlan removes the user's plan.
func (s *Service) DeletePlan(ctx context.Context, userID, planID int) error {
	if err := s.repo.plans.Delete(ctx, userID, planID); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

// StartSession begins a new workout session, optionally from a plan.
func (s *Service) StartSession(ctx context.Context, userID int, planID *int) (Session, error) {
	session, err := s.repo.sessions.Create(ctx, userID, planID)
	if err != nil {
		return Session{}, fmt.Errorf("start session: %w", err)
	}
	return session, nil
}

// GetSession retrieves one of the user's sessions with its sets.
func (s *Service) GetSession(ctx context.Context, userID, sessionID int) (Session, error) {
	session, err := s.repo.sessions.Get(ctx, userID, sessionID)
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// ListSessions returns the user's session history, newest first.
func (s *Service) ListSessions(ctx context.Context, userID int) ([]Session, error) {
	sessions, err := s.repo.sessions.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// LogSet appends a completed set to an open session.
func (s *Service) LogSet(ctx context.Context, userID, sessionID, exerciseID, reps int, weightKg float64) error {
	if err := s.repo.sessions.Update(ctx, userID, sessionID, func(sess *Session) (bool, error) {
		if sess.CompletedAt != nil {
			return false, errors.New("session already completed")
		}
		setNumber := 1
		for _, set := range sess.Sets {
			if set.ExerciseID == exerciseID && set.SetNumber >= setNumber {
				setNumber = set.SetNumber + 1
			}
		}
		sess.Sets = append(sess.Sets, SessionSet{
			ExerciseID: exerciseID,
			SetNumber:  setNumber,
			Reps:       reps,
			WeightKg:   weightKg,
		})
		return true, nil
	}); err != nil {
		return fmt.Errorf("log set: %w", err)
	}
	return nil
}

// CompleteSession closes an open session.
func (s *Service) CompleteSession(ctx context.Context, userID, sessionID int, notes string) error {
	if err := s.repo.sessions.Update(ctx, userID, sessionID, func(sess *Session) (bool, error) {
		if sess.CompletedAt != nil {
			return false, nil
		}
		now := time.Now()
		sess.CompletedAt = &now
		sess.Notes = notes
		return true, nil
	}); err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	return nil
}

// UpsertRepMax records or replaces the user's one-rep max for an exercise.
func (s *Service) UpsertRepMax(ctx context.Context, userID, exerciseID int, weightKg float64) error {
	if weightKg <= 0 {
		return fmt.Errorf("rep max must be positive: %w", ErrInvalidParameters)
	}
	if _, err := s.GetExercise(ctx, userID, exerciseID); err != nil {
		return fmt.Errorf("get exercise: %w", err)
	}
	if err := s.repo.repMaxes.Upsert(ctx, userID, exerciseID, weightKg); err != nil {
		return fmt.Errorf("upsert rep max: %w", err)
	}
	return nil
}

// ListRepMaxes returns the user's rep maxes.
func (s *Service) ListRepMaxes(ctx context.Context, userID int) ([]RepMax, error) {
	repMaxes, err := s.repo.repMaxes.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list rep maxes: %w", err)
	}
	return repMaxes, nil
}

// ExerciseProgressSeries returns the heaviest logged set per day for charting.
func (s *Service) ExerciseProgressSeries(ctx context.Context, userID, exerciseID int) ([]WeightPoint, error) {
	series, err := s.repo.sessions.BestSetSeries(ctx, userID, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("best set series: %w", err)
	}
	return series, nil
}

// normalizeCategories drops the primary category from the secondary list so
// the invariant holds no matter what the form posted.
func normalizeCategories(ex Exercise) Exercise {
	var secondaries []string
	for _, category := range ex.SecondaryCategories {
		if category != ex.PrimaryCategory {
			secondaries = append(secondaries, category)
		}
	}
	ex.SecondaryCategories = secondaries
	return ex
}
