package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/evankoski/liftplan/internal/contexthelpers"
	"github.com/evankoski/liftplan/internal/errors"
	"github.com/evankoski/liftplan/internal/measurement"
)

type measurementsTemplateData struct {
	BaseTemplateData
	Measurements []measurement.Measurement
	// Today prefills the date input.
	Today string
}

func (app *application) measurementsGET(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	measurements, err := app.measurementService.History(r.Context(), userID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "measurements", measurementsTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Measurements:     measurements,
		Today:            time.Now().Format(time.DateOnly),
	})
}

func (app *application) measurementRecordPOST(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.serverError(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	measuredOn, err := time.Parse(time.DateOnly, r.PostForm.Get("measured_on"))
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}
	weightKg, err := strconv.ParseFloat(r.PostForm.Get("weight_kg"), 64)
	if err != nil || weightKg <= 0 {
		http.Error(w, "invalid weight", http.StatusBadRequest)
		return
	}
	heightCm, err := strconv.ParseFloat(r.PostForm.Get("height_cm"), 64)
	if err != nil || heightCm <= 0 {
		http.Error(w, "invalid height", http.StatusBadRequest)
		return
	}

	if err = app.measurementService.Record(r.Context(), measurement.Measurement{
		UserID:     contexthelpers.AuthenticatedUserID(r.Context()),
		MeasuredOn: measuredOn,
		WeightKg:   weightKg,
		HeightCm:   heightCm,
	}); err != nil {
		app.serverError(w, r, err)
		return
	}

	redirect(w, r, "/measurements")
}

func (app *application) measurementDeletePOST(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.serverError(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	measuredOn, err := time.Parse(time.DateOnly, r.PostForm.Get("measured_on"))
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	userID := contexthelpers.AuthenticatedUserID(r.Context())
	err = app.measurementService.Delete(r.Context(), userID, measuredOn)
	if errors.Is(err, measurement.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	redirect(w, r, "/measurements")
}
