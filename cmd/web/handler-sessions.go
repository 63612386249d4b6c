package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/evankoski/liftplan/internal/contexthelpers"
	"github.com/evankoski/liftplan/internal/errors"
	"github.com/evankoski/liftplan/internal/workout"
)

type sessionListTemplateData struct {
	BaseTemplateData
	Sessions []workout.Session
}

func (app *application) sessionsGET(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	sessions, err := app.workoutService.ListSessions(r.Context(), userID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "sessions", sessionListTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Sessions:         sessions,
	})
}

func (app *application) sessionStartPOST(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.serverError(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	userID := contexthelpers.AuthenticatedUserID(r.Context())

	// A session may be started from a plan or freestyle.
	var planID *int
	if publicID := r.PostForm.Get("plan_public_id"); publicID != "" {
		plan, err := app.workoutService.GetPlan(r.Context(), publicID)
		if errors.Is(err, workout.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		if err != nil {
			app.serverError(w, r, err)
			return
		}
		planID = &plan.ID
	}

	session, err := app.workoutService.StartSession(r.Context(), userID, planID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	redirect(w, r, fmt.Sprintf("/sessions/%d", session.ID))
}

type sessionDetailTemplateData struct {
	BaseTemplateData
	Session workout.Session
	// Exercises is the user's catalog for the set logging form.
	Exercises []workout.Exercise
	// ExerciseNames resolves the exercise ids of logged sets for display.
	ExerciseNames map[int]string
}

func (app *application) sessionGET(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := app.parseIDParam(w, r, "sessionID")
	if !ok {
		return
	}

	userID := contexthelpers.AuthenticatedUserID(r.Context())
	session, err := app.workoutService.GetSession(r.Context(), userID, sessionID)
	if errors.Is(err, workout.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	data := sessionDetailTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Session:          session,
	}

	if data.Exercises, err = app.workoutService.ListExercises(r.Context(), userID); err != nil {
		app.serverError(w, r, err)
		return
	}
	data.ExerciseNames = make(map[int]string, len(data.Exercises))
	for _, exercise := range data.Exercises {
		data.ExerciseNames[exercise.ID] = exercise.Name
	}

	app.render(w, r, http.StatusOK, "session-detail", data)
}

func (app *application) sessionLogSetPOST(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := app.parseIDParam(w, r, "sessionID")
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		app.serverError(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	exerciseID, err := strconv.Atoi(r.PostForm.Get("exercise_id"))
	if err != nil {
		http.Error(w, "invalid exercise", http.StatusBadRequest)
		return
	}
	reps, err := strconv.Atoi(r.PostForm.Get("reps"))
	if err != nil || reps < 0 {
		http.Error(w, "invalid reps", http.StatusBadRequest)
		return
	}
	weightKg, err := strconv.ParseFloat(r.PostForm.Get("weight_kg"), 64)
	if err != nil || weightKg < 0 {
		http.Error(w, "invalid weight", http.StatusBadRequest)
		return
	}

	userID := contexthelpers.AuthenticatedUserID(r.Context())
	err = app.workoutService.LogSet(r.Context(), userID, sessionID, exerciseID, reps, weightKg)
	if errors.Is(err, workout.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	redirect(w, r, fmt.Sprintf("/sessions/%d", sessionID))
}

func (app *application) sessionCompletePOST(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := app.parseIDParam(w, r, "sessionID")
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		app.serverError(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	userID := contexthelpers.AuthenticatedUserID(r.Context())
	err := app.workoutService.CompleteSession(r.Context(), userID, sessionID, r.PostForm.Get("notes"))
	if errors.Is(err, workout.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	redirect(w, r, "/sessions")
}
