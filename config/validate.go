package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate checks field ranges and the server URL. The error lists every
// failing field so the startup error modal can show them together.
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var problems []string
	for _, fieldErr := range validationErrors {
		problems = append(problems, describeFieldError(fieldErr))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}

func describeFieldError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldErr.Field())
	case "url":
		return fmt.Sprintf("%s must be an absolute URL (got %q)", fieldErr.Field(), fieldErr.Value())
	case "min", "max":
		return fmt.Sprintf("%s must be %s %s (got %v)", fieldErr.Field(), boundWord(fieldErr.Tag()), fieldErr.Param(), fieldErr.Value())
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", fieldErr.Field(), fieldErr.Tag())
	}
}

func boundWord(tag string) string {
	if tag == "min" {
		return "at least"
	}
	return "at most"
}
