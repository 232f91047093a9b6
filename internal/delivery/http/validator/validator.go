// Package validator adapts go-playground/validator to Echo's Validator interface.
package validator

import (
	domainerrors "tasker/internal/domain/errors"

	validatorlib "github.com/go-playground/validator/v10"
)

// echoValidator wraps a validator instance for use as echo.Echo.Validator.
type echoValidator struct {
	validate *validatorlib.Validate
}

// New creates a request validator backed by struct tags.
func New() *echoValidator {
	return &echoValidator{
		validate: validatorlib.New(validatorlib.WithRequiredStructEnabled()),
	}
}

// Validate checks the bound request struct against its validate tags.
// Failures surface as a 400 with the offending fields listed.
func (v *echoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
