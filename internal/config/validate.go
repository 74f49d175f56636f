package config

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	apperrors "lifeexp/internal/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("region", isRegionCode)
	})
	return validate
}

// isRegionCode accepts any valid UTF-8 string without control characters.
// The value is matched verbatim, so it is never trimmed. Pair it with
// "required" where an empty value is not allowed.
func isRegionCode(fl validator.FieldLevel) bool {
	return isValidRegion(fl.Field().String())
}

func isValidRegion(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// Validate checks every section and reports all failures at once
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewConfigError("config validation failed", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return apperrors.NewConfigError("config validation failed", fmt.Errorf("%s", strings.Join(msgs, "; ")))
}

// ValidateRegion checks a region filter supplied on the command line. The
// empty string is allowed and simply matches no rows.
func ValidateRegion(region string) error {
	if !isValidRegion(region) {
		return apperrors.NewConfigError(fmt.Sprintf("invalid region filter %q", region), nil)
	}
	return nil
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required", "required_if", "required_unless":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s (%q) must be one of: %s", field, fe.Value(), fe.Param())
	case "region":
		return fmt.Sprintf("%s (%q) is not a valid region code", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
