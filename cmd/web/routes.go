package main

import (
	"fmt"
	"net/http"
)

func (app *application) routes() (*http.ServeMux, error) {
	mux := http.NewServeMux()

	var (
		common = func(next http.Handler) http.Handler {
			return app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
				commonContext(app.timeout(next)))))
		}
		noAuth = func(next http.Handler) http.Handler {
			return app.recoverPanic(common(next))
		}
		session = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(app.sessionManager.LoadAndSave(
				app.authenticate(common(next)))))
		}
		mustSession = func(next http.Handler) http.Handler {
			return session(app.mustAuthenticate(next))
		}
	)

	mux.Handle("GET /signup", session(http.HandlerFunc(app.signUpGET)))
	mux.Handle("POST /signup", session(http.HandlerFunc(app.signUpPOST)))
	mux.Handle("GET /signin", session(http.HandlerFunc(app.signInGET)))
	mux.Handle("POST /signin", session(http.HandlerFunc(app.signInPOST)))
	mux.Handle("POST /signout", mustSession(http.HandlerFunc(app.signOutPOST)))

	mux.Handle("GET /exercises", mustSession(http.HandlerFunc(app.exercisesGET)))
	mux.Handle("GET /exercises/new", mustSession(http.HandlerFunc(app.exerciseNewGET)))
	mux.Handle("POST /exercises/new", mustSession(http.HandlerFunc(app.exerciseCreatePOST)))
	mux.Handle("GET /exercises/{exerciseID}", mustSession(http.HandlerFunc(app.exerciseGET)))
	mux.Handle("GET /exercises/{exerciseID}/edit", mustSession(http.HandlerFunc(app.exerciseEditGET)))
	mux.Handle("POST /exercises/{exerciseID}", mustSession(http.HandlerFunc(app.exerciseUpdatePOST)))
	mux.Handle("POST /exercises/{exerciseID}/delete", mustSession(http.HandlerFunc(app.exerciseDeletePOST)))
	mux.Handle("POST /exercises/{exerciseID}/rep-max", mustSession(http.HandlerFunc(app.repMaxPOST)))

	mux.Handle("GET /plans", mustSession(http.HandlerFunc(app.plansGET)))
	mux.Handle("GET /plans/generate", mustSession(http.HandlerFunc(app.planGenerateGET)))
	mux.Handle("POST /plans/generate", mustSession(http.HandlerFunc(app.planGeneratePOST)))
	// Plan details are shareable by URL, so the public id route skips the
	// authentication requirement.
	mux.Handle("GET /plans/{publicID}", session(http.HandlerFunc(app.planGET)))
	mux.Handle("POST /plans/{publicID}/delete", mustSession(http.HandlerFunc(app.planDeletePOST)))

	mux.Handle("GET /sessions", mustSession(http.HandlerFunc(app.sessionsGET)))
	mux.Handle("POST /sessions/start", mustSession(http.HandlerFunc(app.sessionStartPOST)))
	mux.Handle("GET /sessions/{sessionID}", mustSession(http.HandlerFunc(app.sessionGET)))
	mux.Handle("POST /sessions/{sessionID}/sets", mustSession(http.HandlerFunc(app.sessionLogSetPOST)))
	mux.Handle("POST /sessions/{sessionID}/complete", mustSession(http.HandlerFunc(app.sessionCompletePOST)))

	mux.Handle("GET /measurements", mustSession(http.HandlerFunc(app.measurementsGET)))
	mux.Handle("POST /measurements", mustSession(http.HandlerFunc(app.measurementRecordPOST)))
	mux.Handle("POST /measurements/delete", mustSession(http.HandlerFunc(app.measurementDeletePOST)))

	mux.Handle("GET /account", mustSession(http.HandlerFunc(app.accountGET)))
	mux.Handle("POST /account", mustSession(http.HandlerFunc(app.accountRenamePOST)))
	mux.Handle("POST /account/delete", mustSession(http.HandlerFunc(app.accountDeletePOST)))

	mux.Handle("GET /api/charts/body-weight", mustSession(http.HandlerFunc(app.bodyWeightChart)))
	mux.Handle("GET /api/charts/exercises/{exerciseID}", mustSession(http.HandlerFunc(app.exerciseProgressChart)))

	mux.Handle("GET /api/healthy", session(http.HandlerFunc(app.healthy)))
	mux.Handle("GET /api/test/timeout", noAuth(http.HandlerFunc(app.testTimeout)))
	mux.Handle("POST /api/reports", noAuth(http.HandlerFunc(app.reportingAPI)))

	// Home route (most specific)
	mux.Handle("GET /{$}", session(http.HandlerFunc(app.home)))

	// File server with custom 404 handling
	fileServerHandler, err := app.fileServerHandler()
	if err != nil {
		return nil, fmt.Errorf("fileServerHandler: %w", err)
	}
	mux.Handle("/", fileServerHandler)

	return mux, nil
}
