package services

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// MinPasswordLength applies to new passwords chosen on reset.
const MinPasswordLength = 6

var (
	emailRules = []validation.Rule{validation.Required, is.Email, validation.Length(3, 254)}
	roleRule   = validation.In(models.RoleUser, models.RoleAdmin)
)

// check runs ozzo rule sets and converts failures into a validation *Error
// carrying msg and the per-field messages.
func check(msg string, errs validation.Errors) error {
	err := errs.Filter()
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	if ve, ok := err.(validation.Errors); ok {
		for k, v := range ve {
			fields[k] = v.Error()
		}
	}
	return validationError(msg, fields)
}
