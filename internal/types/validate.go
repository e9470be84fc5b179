package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// NewValidator returns a validator with the "notblank" tag registered, so
// required text fields reject whitespace-only values.
func NewValidator() *validator.Validate {
	validate := validator.New()
	_ = validate.RegisterValidation("notblank", validators.NotBlank)
	return validate
}
