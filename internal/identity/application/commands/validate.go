package commands

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	sharedDomain "github.com/felixgeelhaar/digibank/internal/shared/domain"
	"github.com/go-playground/validator/v10"
)

var commandValidator = newCommandValidator()

func newCommandValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateCommand checks the struct tags of a command and reports the first
// failing field as an ErrInvalidField validation error.
func validateCommand(cmd any) error {
	err := commandValidator.Struct(cmd)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	return sharedDomain.NewValidationError(sharedDomain.ErrInvalidField, fe.Field(), reasonFor(fe))
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "cannot be null or empty"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}
