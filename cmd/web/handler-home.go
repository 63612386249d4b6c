package main

import (
	"net/http"

	"github.com/evankoski/liftplan/internal/contexthelpers"
	"github.com/evankoski/liftplan/internal/workout"
)

type homeTemplateData struct {
	BaseTemplateData
	// RecentPlans are the user's newest plans, for quick navigation.
	RecentPlans []workout.Plan
	// OpenSessions are started but uncompleted workout sessions.
	OpenSessions []workout.Session
}

const maxRecentPlans = 5

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	data := homeTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
	}

	// Only fetch workout data for authenticated users
	if data.Authenticated {
		userID := contexthelpers.AuthenticatedUserID(r.Context())

		plans, err := app.workoutService.ListPlans(r.Context(), userID)
		if err != nil {
			app.serverError(w, r, err)
			return
		}
		if len(plans) > maxRecentPlans {
			plans = plans[:maxRecentPlans]
		}
		data.RecentPlans = plans

		sessions, err := app.workoutService.ListSessions(r.Context(), userID)
		if err != nil {
			app.serverError(w, r, err)
			return
		}
		for _, session := range sessions {
			if session.CompletedAt == nil {
				data.OpenSessions = append(data.OpenSessions, session)
			}
		}
	}

	app.render(w, r, http.StatusOK, "home", data)
}
