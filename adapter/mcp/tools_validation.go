package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	sharedDomain "github.com/felixgeelhaar/digibank/internal/shared/domain"
	"github.com/felixgeelhaar/digibank/internal/validation"
)

type cpfInput struct {
	CPF string `json:"cpf" jsonschema:"required"`
}

type emailInput struct {
	Email string `json:"email" jsonschema:"required"`
}

type phoneInput struct {
	Phone string `json:"phone" jsonschema:"required"`
}

type cardInput struct {
	Number     string `json:"number" jsonschema:"required"`
	HolderName string `json:"holder_name" jsonschema:"required"`
	Expiration string `json:"expiration" jsonschema:"required"`
	CVV        string `json:"cvv" jsonschema:"required"`
}

func registerValidationTools(srv *mcp.Server, deps ToolDependencies) error {
	srv.Tool("validate.cpf").
		Description("Check a Brazilian CPF and return its canonical and masked forms").
		Handler(instrument(deps, "validate.cpf", validateCPF(deps)))

	srv.Tool("validate.email").
		Description("Check an email address and return the address and its domain").
		Handler(instrument(deps, "validate.email", validateEmail(deps)))

	srv.Tool("validate.phone").
		Description("Check a phone number written as +DDI (DDD) 99999-9999 and resolve its country").
		Handler(instrument(deps, "validate.phone", validatePhone(deps)))

	srv.Tool("validate.card").
		Description("Check a payment card and detect its brand. The number and CVV are never echoed back").
		Handler(instrument(deps, "validate.card", validateCard(deps)))

	return nil
}

func validationService(deps ToolDependencies) (*validation.Service, error) {
	if deps.App == nil || deps.App.Validation == nil {
		return nil, errors.New("validation service not initialized")
	}
	return deps.App.Validation, nil
}

// rejected reports whether err only describes invalid input. Such outcomes
// are returned as reports, not tool errors.
func rejected(err error) bool {
	return err == nil || sharedDomain.IsValidationError(err)
}

func validateCPF(deps ToolDependencies) func(context.Context, cpfInput) (validation.NationalIDReport, error) {
	return func(ctx context.Context, input cpfInput) (validation.NationalIDReport, error) {
		svc, err := validationService(deps)
		if err != nil {
			return validation.NationalIDReport{}, err
		}
		report, err := svc.NationalID(ctx, input.CPF)
		if !rejected(err) {
			return report, err
		}
		return report, nil
	}
}

func validateEmail(deps ToolDependencies) func(context.Context, emailInput) (validation.EmailReport, error) {
	return func(ctx context.Context, input emailInput) (validation.EmailReport, error) {
		svc, err := validationService(deps)
		if err != nil {
			return validation.EmailReport{}, err
		}
		report, err := svc.Email(ctx, input.Email)
		if !rejected(err) {
			return report, err
		}
		return report, nil
	}
}

func validatePhone(deps ToolDependencies) func(context.Context, phoneInput) (validation.PhoneReport, error) {
	return func(ctx context.Context, input phoneInput) (validation.PhoneReport, error) {
		svc, err := validationService(deps)
		if err != nil {
			return validation.PhoneReport{}, err
		}
		report, err := svc.Phone(ctx, input.Phone)
		if !rejected(err) {
			return report, err
		}
		return report, nil
	}
}

func validateCard(deps ToolDependencies) func(context.Context, cardInput) (validation.CardReport, error) {
	return func(ctx context.Context, input cardInput) (validation.CardReport, error) {
		svc, err := validationService(deps)
		if err != nil {
			return validation.CardReport{}, err
		}
		report, err := svc.Card(ctx, validation.CardInput{
			Number:     input.Number,
			HolderName: input.HolderName,
			Expiration: input.Expiration,
			CVV:        input.CVV,
		})
		if !rejected(err) {
			return report, err
		}
		return report, nil
	}
}
