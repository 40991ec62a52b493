package serverutils

import (
	"errors"
	"fmt"

	"ai-storyboard-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs the struct's validate tags and turns failures into a
// VALIDATION_ERROR with one entry per field.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperror.Validation(err.Error(), nil)
	}

	details := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		details[fe.Field()] = fmt.Sprintf("failed on '%s' rule", fe.Tag())
	}
	return apperror.Validation("Invalid request", details)
}
