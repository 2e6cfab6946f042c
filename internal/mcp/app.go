package mcp

import (
	"github.com/felixgeelhaar/digibank/adapter/cli"
	"github.com/felixgeelhaar/digibank/internal/app"
)

// NewCLIApp creates a CLI application instance backed by the provided container.
// Changes made through it are attributed to actor.
func NewCLIApp(container *app.Container, actor string) *cli.App {
	cliApp := cli.NewApp(container.Validation, actor)

	cliApp.SetUserHandlers(cli.UserHandlers{
		Register:         container.RegisterUserHandler,
		Update:           container.UpdateUserHandler,
		ChangeEmail:      container.ChangeEmailHandler,
		ChangePhone:      container.ChangePhoneHandler,
		ChangeNationalID: container.ChangeNationalIDHandler,
		ChangeBirthDate:  container.ChangeBirthDateHandler,
		ChangePassword:   container.ChangePasswordHandler,
		Activate:         container.ActivateUserHandler,
		Deactivate:       container.DeactivateUserHandler,
		RecordLogin:      container.RecordLoginHandler,
		Delete:           container.DeleteUserHandler,
		Get:              container.GetUserHandler,
		List:             container.ListUsersHandler,
	})

	return cliApp
}
