package forms

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"sitekit/pkg/validation"
)

type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() (*Validator, error) {
	v, err := validation.New()
	if err != nil {
		return nil, err
	}
	return &Validator{validate: v}, nil
}

// Check runs the schema rules in field order and stops at the first failure.
func (v *Validator) Check(schema Schema, values map[string]string) *FieldError {
	for _, f := range schema.Fields {
		if f.Rules == "" {
			continue
		}
		if err := v.validate.Var(values[f.Name], f.Rules); err != nil {
			tag := "required"
			if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
				tag = verrs[0].Tag()
			}
			return &FieldError{Field: f.Name, Message: f.message(tag)}
		}
	}
	return nil
}
