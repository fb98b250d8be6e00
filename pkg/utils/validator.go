package utils

import (
	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	// Custom validations
	v.RegisterValidation("event_category", validateEventCategory)

	return &Validator{
		validate: v,
	}
}

func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

func validateEventCategory(fl validator.FieldLevel) bool {
	category := fl.Field().String()
	supportedCategories := map[string]bool{
		"music":     true,
		"sports":    true,
		"arts":      true,
		"food":      true,
		"tech":      true,
		"business":  true,
		"education": true,
		"other":     true,
	}
	return supportedCategories[category]
}
