// Package validator wraps go-playground/validator with the ledger's error
// taxonomy.
package validator

import (
	"github.com/go-playground/validator/v10"

	ierr "github.com/leapstack-labs/leapledger/internal/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Get returns the shared validator instance.
func Get() *validator.Validate {
	return validate
}

// ValidateStruct checks v against its validate tags. Failures are marked
// ierr.ErrValidation and carry one detail per offending field.
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, fe := range validateErrs {
				details[fe.Field()] = fe.Tag()
			}
		}
		return ierr.WithError(err).
			WithHint("Please fill all fields.").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}
