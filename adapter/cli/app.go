package cli

import (
	"errors"

	"github.com/felixgeelhaar/digibank/internal/identity/application/commands"
	"github.com/felixgeelhaar/digibank/internal/identity/application/queries"
	"github.com/felixgeelhaar/digibank/internal/validation"
)

// ErrNoDatabase is returned by user commands when the CLI started without a
// database connection.
var ErrNoDatabase = errors.New("user commands require a database connection")

// UserHandlers groups the user command and query handlers.
type UserHandlers struct {
	Register         *commands.RegisterUserHandler
	Update           *commands.UpdateUserHandler
	ChangeEmail      *commands.ChangeEmailHandler
	ChangePhone      *commands.ChangePhoneHandler
	ChangeNationalID *commands.ChangeNationalIDHandler
	ChangeBirthDate  *commands.ChangeBirthDateHandler
	ChangePassword   *commands.ChangePasswordHandler
	Activate         *commands.ActivateUserHandler
	Deactivate       *commands.DeactivateUserHandler
	RecordLogin      *commands.RecordLoginHandler
	Delete           *commands.DeleteUserHandler

	Get  *queries.GetUserHandler
	List *queries.ListUsersHandler
}

// App holds the CLI application dependencies.
type App struct {
	Validation *validation.Service
	Users      *UserHandlers

	// Actor is recorded as the author of every change made from the CLI.
	Actor string
}

// NewApp creates a CLI application. Validation works without a database;
// user commands need SetUserHandlers.
func NewApp(validationService *validation.Service, actor string) *App {
	return &App{
		Validation: validationService,
		Actor:      actor,
	}
}

// SetUserHandlers enables the user commands.
func (a *App) SetUserHandlers(h UserHandlers) {
	a.Users = &h
}

// RequireUsers returns the user handlers or ErrNoDatabase.
func (a *App) RequireUsers() (*UserHandlers, error) {
	if a == nil || a.Users == nil {
		return nil, ErrNoDatabase
	}
	return a.Users, nil
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// RequireValidation returns the validation service of the global app.
func RequireValidation() (*validation.Service, error) {
	if app == nil || app.Validation == nil {
		return nil, errors.New("application not initialized")
	}
	return app.Validation, nil
}
