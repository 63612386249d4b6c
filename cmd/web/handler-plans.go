package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/evankoski/liftplan/internal/contexthelpers"
	"github.com/evankoski/liftplan/internal/errors"
	"github.com/evankoski/liftplan/internal/ptr"
	"github.com/evankoski/liftplan/internal/workout"
)

type planListTemplateData struct {
	BaseTemplateData
	Plans []workout.Plan
}

func (app *application) plansGET(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	plans, err := app.workoutService.ListPlans(r.Context(), userID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "plans", planListTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Plans:            plans,
	})
}

type planGenerateTemplateData struct {
	BaseTemplateData
	Equipment []workout.Equipment
	// Error is a user-facing message shown above the form.
	Error string
}

func (app *application) planGenerateGET(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "plan-generate", planGenerateTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Equipment:        workout.AllEquipment,
	})
}

func (app *application) planGeneratePOST(w http.ResponseWriter, r *http.Request) {
	req, ok := app.parseGenerationForm(w, r)
	if !ok {
		return
	}

	plan, err := app.workoutService.GeneratePlan(r.Context(), req)
	if errors.Is(err, workout.ErrInvalidParameters) || errors.Is(err, workout.ErrInvalidWorkoutConfiguration) {
		app.render(w, r, http.StatusUnprocessableEntity, "plan-generate", planGenerateTemplateData{
			BaseTemplateData: newBaseTemplateData(r),
			Equipment:        workout.AllEquipment,
			Error:            "Those choices don't combine into a workout, please review them.",
		})
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	redirect(w, r, "/plans/"+plan.PublicID)
}

// parseGenerationForm reads the plan generation questionnaire. On failure,
// responds automatically and returns ok=false.
func (app *application) parseGenerationForm(
	w http.ResponseWriter,
	r *http.Request,
) (workout.GenerationRequest, bool) {
	if err := r.ParseForm(); err != nil {
		app.serverError(w, r, fmt.Errorf("parse form: %w", err))
		return workout.GenerationRequest{}, false
	}

	weeklyDays, err := strconv.Atoi(r.PostForm.Get("weekly_days"))
	if err != nil || weeklyDays < 1 || weeklyDays > 7 {
		http.Error(w, "weekly training days must be between 1 and 7", http.StatusBadRequest)
		return workout.GenerationRequest{}, false
	}

	req := workout.GenerationRequest{
		UserID:      contexthelpers.AuthenticatedUserID(r.Context()),
		Goal:        workout.TrainingGoal(r.PostForm.Get("goal")),
		Experience:  workout.ExperienceLevel(r.PostForm.Get("experience")),
		WeeklyDays:  weeklyDays,
		FillWeights: r.PostForm.Get("fill_weights") == "on",
	}

	// Bodyweight exercises are always available.
	req.Equipment = []workout.Equipment{workout.EquipmentNone}
	for _, value := range r.PostForm["equipment"] {
		equipment := workout.Equipment(value)
		if equipment != workout.EquipmentNone {
			req.Equipment = append(req.Equipment, equipment)
		}
	}

	if day := r.PostForm.Get("push_pull_day"); day != "" {
		req.PushPullDay = ptr.Ref(workout.PushPullDay(day))
	}
	if day := r.PostForm.Get("upper_lower_day"); day != "" {
		req.UpperLowerDay = ptr.Ref(workout.UpperLowerDay(day))
	}

	return req, true
}

type planDetailTemplateData struct {
	BaseTemplateData
	Plan workout.Plan
	// Owned is true when the signed-in user owns the plan.
	Owned bool
}

func (app *application) planGET(w http.ResponseWriter, r *http.Request) {
	publicID := r.PathValue("publicID")

	plan, err := app.workoutService.GetPlan(r.Context(), publicID)
	if errors.Is(err, workout.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "plan-detail", planDetailTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Plan:             plan,
		Owned:            plan.UserID == contexthelpers.AuthenticatedUserID(r.Context()),
	})
}

func (app *application) planDeletePOST(w http.ResponseWriter, r *http.Request) {
	publicID := r.PathValue("publicID")
	userID := contexthelpers.AuthenticatedUserID(r.Context())

	plan, err := app.workoutService.GetPlan(r.Context(), publicID)
	if errors.Is(err, workout.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	err = app.workoutService.DeletePlan(r.Context(), userID, plan.ID)
	if errors.Is(err, workout.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	redirect(w, r, "/plans")
}
