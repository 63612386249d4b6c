package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/evankoski/liftplan/internal/contexthelpers"
	"github.com/evankoski/liftplan/internal/errors"
	"github.com/evankoski/liftplan/internal/workout"
)

type exerciseListTemplateData struct {
	BaseTemplateData
	Exercises []workout.Exercise
}

func (app *application) exercisesGET(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	exercises, err := app.workoutService.ListExercises(r.Context(), userID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "exercises", exerciseListTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Exercises:        exercises,
	})
}

type exerciseEditTemplateData struct {
	BaseTemplateData
	Exercise     workout.Exercise
	MuscleGroups []workout.Category
	Equipment    []workout.Equipment
	// Editable is false for library exercises, which are shown read-only.
	Editable bool
	IsNew    bool
}

func (app *application) exerciseNewGET(w http.ResponseWriter, r *http.Request) {
	muscleGroups, err := app.workoutService.ListMuscleGroups(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "exercise-edit", exerciseEditTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		MuscleGroups:     muscleGroups,
		Equipment:        workout.AllEquipment,
		Editable:         true,
		IsNew:            true,
	})
}

func (app *application) exerciseCreatePOST(w http.ResponseWriter, r *http.Request) {
	exercise, ok := app.parseExerciseForm(w, r)
	if !ok {
		return
	}

	userID := contexthelpers.AuthenticatedUserID(r.Context())
	created, err := app.workoutService.CreateExercise(r.Context(), userID, exercise)
	if errors.Is(err, workout.ErrInvalidParameters) {
		http.Error(w, "unknown muscle group", http.StatusBadRequest)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	redirect(w, r, fmt.Sprintf("/exercises/%d", created.ID))
}

type exerciseDetailTemplateData struct {
	BaseTemplateData
	Exercise workout.Exercise
	RepMax   *workout.RepMax
	// Owned is true when the signed-in user authored the exercise.
	Owned bool
}

func (app *application) exerciseGET(w http.ResponseWriter, r *http.Request) {
	exerciseID, ok := app.parseIDParam(w, r, "exerciseID")
	if !ok {
		return
	}

	userID := contexthelpers.AuthenticatedUserID(r.Context())
	exercise, err := app.workoutService.GetExercise(r.Context(), userID, exerciseID)
	if errors.Is(err, workout.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	data := exerciseDetailTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Exercise:         exercise,
		Owned:            exercise.OwnerID != nil && *exercise.OwnerID == userID,
	}

	repMaxes, err := app.workoutService.ListRepMaxes(r.Context(), userID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	for i := range repMaxes {
		if repMaxes[i].ExerciseID == exercise.ID {
			data.RepMax = &repMaxes[i]
		}
	}

	app.render(w, r, http.StatusOK, "exercise-detail", data)
}

func (app *application) exerciseEditGET(w http.ResponseWriter, r *http.Request) {
	exerciseID, ok := app.parseIDParam(w, r, "exerciseID")
	if !ok {
		return
	}

	userID := contexthelpers.AuthenticatedUserID(r.Context())
	exercise, err := app.workoutService.GetExercise(r.Context(), userID, exerciseID)
	if errors.Is(err, workout.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	// Library exercises are read-only.
	if exercise.OwnerID == nil || *exercise.OwnerID != userID {
		app.notFound(w, r)
		return
	}

	muscleGroups, err := app.workoutService.ListMuscleGroups(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "exercise-edit", exerciseEditTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Exercise:         exercise,
		MuscleGroups:     muscleGroups,
		Equipment:        workout.AllEquipment,
		Editable:         true,
	})
}

func (app *application) exerciseUpdatePOST(w http.ResponseWriter, r *http.Request) {
	exerciseID, ok := app.parseIDParam(w, r, "exerciseID")
	if !ok {
		return
	}
	exercise, ok := app.parseExerciseForm(w, r)
	if !ok {
		return
	}
	exercise.ID = exerciseID

	userID := contexthelpers.AuthenticatedUserID(r.Context())
	err := app.workoutService.UpdateExercise(r.Context(), userID, exercise)
	if errors.Is(err, workout.ErrInvalidParameters) {
		http.Error(w, "unknown muscle group", http.StatusBadRequest)
		return
	}
	if errors.Is(err, workout.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	redirect(w, r, fmt.Sprintf("/exercises/%d", exerciseID))
}

func (app *application) exerciseDeletePOST(w http.ResponseWriter, r *http.Request) {
	exerciseID, ok := app.parseIDParam(w, r, "exerciseID")
	if !ok {
		return
	}

	userID := contexthelpers.AuthenticatedUserID(r.Context())
	err := app.workoutService.DeleteExercise(r.Context(), userID, exerciseID)
	if errors.Is(err, workout.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	redirect(w, r, "/exercises")
}

func (app *application) repMaxPOST(w http.ResponseWriter, r *http.Request) {
	exerciseID, ok := app.parseIDParam(w, r, "exerciseID")
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		app.serverError(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	weightKg, err := strconv.ParseFloat(r.PostForm.Get("weight_kg"), 64)
	if err != nil {
		http.Error(w, "invalid weight", http.StatusBadRequest)
		return
	}

	userID := contexthelpers.AuthenticatedUserID(r.Context())
	if err = app.workoutService.UpsertRepMax(r.Context(), userID, exerciseID, weightKg); err != nil {
		if errors.Is(err, workout.ErrInvalidParameters) || errors.Is(err, workout.ErrNotFound) {
			http.Error(w, "invalid weight", http.StatusBadRequest)
			return
		}
		app.serverError(w, r, err)
		return
	}

	redirect(w, r, fmt.Sprintf("/exercises/%d", exerciseID))
}

// parseExerciseForm reads the shared create/update exercise form fields.
// On failure, responds automatically and returns ok=false.
func (app *application) parseExerciseForm(w http.ResponseWriter, r *http.Request) (workout.Exercise, bool) {
	if err := r.ParseForm(); err != nil {
		app.serverError(w, r, fmt.Errorf("parse form: %w", err))
		return workout.Exercise{}, false
	}

	exercise := workout.Exercise{
		Name:                r.PostForm.Get("name"),
		DescriptionMarkdown: r.PostForm.Get("description"),
		Equipment:           workout.Equipment(r.PostForm.Get("equipment")),
		PrimaryCategory:     r.PostForm.Get("primary_category"),
		SecondaryCategories: r.PostForm["secondary_categories"],
	}
	if exercise.Name == "" || exercise.PrimaryCategory == "" {
		http.Error(w, "name and primary muscle group are required", http.StatusBadRequest)
		return workout.Exercise{}, false
	}

	return exercise, true
}
