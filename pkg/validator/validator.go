package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance
func New() *CustomValidator {
	v := validator.New()

	// training_level accepts the known experience levels. Empty passes so
	// the field stays optional and defaults downstream.
	_ = v.RegisterValidation("training_level", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return entities.TrainingLevel(value).IsValid()
	})

	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
