package config

import (
	"fmt"
	"strings"
)

// ConfigurationError represents a failure to load the configuration file.
type ConfigurationError struct {
	FilePath string // Full path to the file that caused the error
	Message  string // Human-readable error message
	Details  string // Additional details about the error
}

// Error implements the error interface
func (ce *ConfigurationError) Error() string {
	if ce.Details == "" {
		return fmt.Sprintf("%s: %s", ce.FilePath, ce.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ce.FilePath, ce.Message, ce.Details)
}

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

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value interface{}) {
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	})
}
