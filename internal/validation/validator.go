package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/iudanet/authstarter/internal/apperr"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getValidator returns the shared validator instance
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// В ошибках используем имена полей из json/form тегов
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})
	})
	return validate
}

// Struct validates s using `validate` struct tags.
// Failures are returned as an apperr validation error with field details.
func Struct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperr.Validation("request contains invalid data", nil)
	}

	details := make([]apperr.FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, apperr.FieldError{
			Field:   e.Field(),
			Message: formatFieldError(e),
		})
	}

	return apperr.Validation("request contains invalid data", details)
}

// formatFieldError создает человекочитаемое сообщение для поля
func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + e.Param() + " characters"
	case "max":
		return "must be at most " + e.Param() + " characters"
	default:
		return "is invalid"
	}
}
