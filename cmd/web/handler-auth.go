package main

import (
	"fmt"
	"net/http"

	"github.com/evankoski/liftplan/internal/auth"
	"github.com/evankoski/liftplan/internal/contexthelpers"
	"github.com/evankoski/liftplan/internal/errors"
)

type authTemplateData struct {
	BaseTemplateData
	// Error is a user-facing message shown above the form.
	Error string
	// Email keeps the typed address when the form is re-rendered.
	Email string
}

func (app *application) signUpGET(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "signup", authTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
	})
}

func (app *application) signUpPOST(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.serverError(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	var (
		email       = r.PostForm.Get("email")
		password    = r.PostForm.Get("password")
		displayName = r.PostForm.Get("display_name")
	)

	user, err := app.authService.SignUp(r.Context(), email, password, displayName)
	if err != nil {
		message := "Something went wrong, please try again."
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			message = "An account with that email already exists."
		case errors.Is(err, auth.ErrWeakPassword):
			message = "Passwords need at least 8 characters."
		case errors.Is(err, auth.ErrInvalidEmail):
			message = "That email address doesn't look right."
		default:
			app.serverError(w, r, err)
			return
		}
		app.render(w, r, http.StatusUnprocessableEntity, "signup", authTemplateData{
			BaseTemplateData: newBaseTemplateData(r),
			Error:            message,
			Email:            email,
		})
		return
	}

	if err = app.signInSession(r, user); err != nil {
		app.serverError(w, r, err)
		return
	}

	redirect(w, r, "/")
}

func (app *application) signInGET(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "signin", authTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
	})
}

func (app *application) signInPOST(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.serverError(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	var (
		email    = r.PostForm.Get("email")
		password = r.PostForm.Get("password")
	)

	user, err := app.authService.SignIn(r.Context(), email, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		app.render(w, r, http.StatusUnprocessableEntity, "signin", authTemplateData{
			BaseTemplateData: newBaseTemplateData(r),
			Error:            "Wrong email or password.",
			Email:            email,
		})
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err = app.signInSession(r, user); err != nil {
		app.serverError(w, r, err)
		return
	}

	redirect(w, r, "/")
}

// signInSession rotates the session token and binds it to the user. Renewing
// the token on privilege change prevents session fixation.
func (app *application) signInSession(r *http.Request, user auth.User) error {
	if err := app.sessionManager.RenewToken(r.Context()); err != nil {
		return fmt.Errorf("renew session token: %w", err)
	}
	app.sessionManager.Put(r.Context(), sessionKeyUserID, user.ID)
	return nil
}

func (app *application) signOutPOST(w http.ResponseWriter, r *http.Request) {
	if err := app.sessionManager.RenewToken(r.Context()); err != nil {
		app.serverError(w, r, fmt.Errorf("renew session token: %w", err))
		return
	}
	app.sessionManager.Remove(r.Context(), sessionKeyUserID)

	redirect(w, r, "/")
}

type accountTemplateData struct {
	BaseTemplateData
	User auth.User
}

func (app *application) accountGET(w http.ResponseWriter, r *http.Request) {
	user, err := app.authService.GetUser(r.Context(), contexthelpers.AuthenticatedUserID(r.Context()))
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "account", accountTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		User:             user,
	})
}

func (app *application) accountRenamePOST(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.serverError(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	userID := contexthelpers.AuthenticatedUserID(r.Context())
	if err := app.authService.RenameUser(r.Context(), userID, r.PostForm.Get("display_name")); err != nil {
		app.serverError(w, r, err)
		return
	}

	redirect(w, r, "/account")
}

func (app *application) accountDeletePOST(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	if err := app.authService.DeleteUser(r.Context(), userID); err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := app.sessionManager.Destroy(r.Context()); err != nil {
		app.serverError(w, r, fmt.Errorf("destroy session: %w", err))
		return
	}

	redirect(w, r, "/")
}
