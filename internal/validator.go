package internal

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// NewValidator builds the request validator. knownSection reports whether a
// section identifier is registered, so handlers can reject unknown sections
// before touching the editor.
func NewValidator(knownSection func(string) bool) *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("section", func(fl validator.FieldLevel) bool {
		return knownSection(fl.Field().String())
	})

	_ = v.RegisterValidation("field_name", func(fl validator.FieldLevel) bool {
		re := regexp.MustCompile(`^[a-zA-Z][\w.]*$`)
		return re.MatchString(fl.Field().String())
	})

	return v
}

func ValidateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err != nil {
		return err
	}
	return nil
}
