package main

import (
	"encoding/json"
	"net/http"

	"github.com/evankoski/liftplan/internal/contexthelpers"
)

// bodyWeightChart serves the user's body-weight series as JSON for the
// measurements chart.
func (app *application) bodyWeightChart(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	series, err := app.measurementService.WeightSeries(r.Context(), userID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, series)
}

// exerciseProgressChart serves the heaviest logged set per day for an
// exercise as JSON.
func (app *application) exerciseProgressChart(w http.ResponseWriter, r *http.Request) {
	exerciseID, ok := app.parseIDParam(w, r, "exerciseID")
	if !ok {
		return
	}

	userID := contexthelpers.AuthenticatedUserID(r.Context())
	series, err := app.workoutService.ExerciseProgressSeries(r.Context(), userID, exerciseID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, series)
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.serverError(w, r, err)
	}
}
