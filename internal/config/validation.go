package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidateRequired checks if a required string field is not empty
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: "is required",
		}
	}
	return nil
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if strings.EqualFold(value, allowedValue) {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// ValidatePositive checks that an integer field is greater than zero
func ValidatePositive(field string, value int) error {
	if value <= 0 {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: "must be greater than zero",
		}
	}
	return nil
}

// Validate checks the configuration loaded from source (empty for defaults) and
// returns every problem found as a ConfigurationErrorCollection.
func (c Config) Validate(source string) error {
	var collection ConfigurationErrorCollection

	add := func(err error, suggestions ...string) {
		if err == nil {
			return
		}
		ve, _ := err.(ValidationError)
		collection.Add(NewConfigurationErrorWithDetails(source, "", ve.Field, "validation",
			ve.Message, fmt.Sprint(ve.Value), suggestions))
	}

	add(ValidateRequired("paths.ossecPath", c.Paths.OssecPath), "set paths.ossecPath to the installation prefix, e.g. /var/ossec")
	if c.Paths.OssecPath != "" && !filepath.IsAbs(c.Paths.OssecPath) {
		add(ValidationError{Field: "paths.ossecPath", Value: c.Paths.OssecPath, Message: "must be an absolute path"})
	}
	add(ValidateRequired("paths.ossecConf", c.Paths.OssecConf))
	add(ValidateRequired("paths.sharedDir", c.Paths.SharedDir))
	add(ValidateRequired("validator.binary", c.Validator.Binary))
	add(ValidatePositive("validator.timeoutSeconds", c.Validator.TimeoutSeconds))
	add(ValidateOneOf("log.level", c.Log.Level, []string{"debug", "info", "warn", "warning", "error"}))
	add(ValidateOneOf("log.format", c.Log.Format, []string{"text", "json"}))
	if c.Watch.DebounceMillis < 0 {
		add(ValidationError{Field: "watch.debounceMillis", Value: c.Watch.DebounceMillis, Message: "must not be negative"})
	}

	if collection.HasErrors() {
		return collection
	}
	return nil
}
