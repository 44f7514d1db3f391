// Package validation builds the validator instance shared by the form
// controllers and the stub API, with the site-specific rules registered.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const TagSiteEmail = "site_email"

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// New returns a validator that reports fields by their json names and knows
// the site_email rule.
func New() (*validator.Validate, error) {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation(TagSiteEmail, validateSiteEmail); err != nil {
		return nil, fmt.Errorf("failed to register %q validator: %w", TagSiteEmail, err)
	}

	return v, nil
}

func validateSiteEmail(fl validator.FieldLevel) bool {
	return IsEmail(fl.Field().String())
}

// IsEmail reports whether s has the local@domain.tld shape.
func IsEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// FirstError returns the first failing field of a validator error and the tag
// that failed, or ok=false if err is not a validation error.
func FirstError(err error) (field, tag string, ok bool) {
	verrs, isVerrs := err.(validator.ValidationErrors)
	if !isVerrs || len(verrs) == 0 {
		return "", "", false
	}
	return verrs[0].Field(), verrs[0].Tag(), true
}
