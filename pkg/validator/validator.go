package validator

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"anoa.com/schoolhub/pkg/apperror"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate runs the `validate` tags of s and returns the failures as an
// ordered list of field-error messages, or nil when s is valid. Services call
// this after their auth checks, never at bind time.
func Validate(s any) []apperror.FieldError {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []apperror.FieldError{{Message: err.Error()}}
	}

	var fieldErrors []apperror.FieldError
	for _, fieldError := range validationErrors {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Message: getFieldErrorMessage(fieldError),
		})
	}
	return fieldErrors
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := fieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", field)
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	case "min":
		if fe.Type().Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Type().Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is not valid", field)
	}
}

func fieldName(field string) string {
	fieldNames := map[string]string{
		"Name":        "name",
		"Email":       "email",
		"Address":     "address",
		"Phone":       "phone",
		"Capacity":    "capacity",
		"School":      "school",
		"StudentName": "studentName",
		"StudentBirth": "studentBirth",
		"StudentPic":  "studentPic",
		"Username":    "username",
		"Password":    "password",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return strings.ToLower(field[:1]) + field[1:]
}
