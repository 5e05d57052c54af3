package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate validates the Config using struct tags and cross-field rules.
// Returns an error if validation fails, with actionable error messages.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	return c.validateSessionLifetimes()
}

// validateSessionLifetimes ensures durations are sane. The remember-me
// lifetime must be at least the base lifetime, otherwise "remember me"
// would shorten the session.
func (c *Config) validateSessionLifetimes() error {
	if c.Session.TTL < 0 {
		return errors.New("session.ttl must not be negative")
	}
	if c.Session.RememberTTL < 0 {
		return errors.New("session.remember_ttl must not be negative")
	}
	if c.Session.CleanupInterval < 0 {
		return errors.New("session.cleanup_interval must not be negative")
	}
	if c.Session.RememberTTL < c.Session.TTL {
		return errors.New("session.remember_ttl must be at least session.ttl")
	}
	return nil
}

// formatValidationErrors converts validator.ValidationErrors to user-friendly messages.
func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, e := range validationErrors {
			messages = append(messages, formatSingleValidationError(e))
		}
		return errors.New(strings.Join(messages, "; "))
	}
	return err
}

// formatSingleValidationError creates a user-friendly message for a single validation error.
func formatSingleValidationError(e validator.FieldError) string {
	field := e.Namespace()
	tag := e.Tag()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "hostname_port":
		return fmt.Sprintf("%s must be a valid host:port", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, tag)
	}
}
