package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a provider failure.
type ErrorKind string

const (
	ErrorTransport   ErrorKind = "transport"
	ErrorTimeout     ErrorKind = "timeout"
	ErrorMalformed   ErrorKind = "malformed"
	ErrorStatus      ErrorKind = "status"
	ErrorUnavailable ErrorKind = "unavailable"
)

// ProviderError is the uniform failure of a provider call. It is always
// recoverable: the builder records it and treats the call as empty.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %s: %s", e.Provider, e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err as a ProviderError of the given kind.
func NewProviderError(provider string, kind ErrorKind, err error) *ProviderError {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &ProviderError{Provider: provider, Kind: kind, Message: msg, Err: err}
}

// ConfigError rejects a build request before any provider is called.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// NewConfigError creates a ConfigError for the named field.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// IsConfigError reports whether err (or anything it wraps) is a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
