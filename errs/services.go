package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Third-Party API & LLM Specific Errors
var (
	ErrUpstreamFailure     = errors.New("upstream provider error")
	ErrUnexpectedResponse  = errors.New("unexpected provider response")
	ErrServiceUnavailable  = errors.New("service unavailable")
	ErrServiceUnreachable  = errors.New("service unreachable")
	ErrNotificationFailure = errors.New("notification failed")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing       = errors.New("configuration missing")
	ErrConfigInvalid       = errors.New("configuration invalid")
	ErrEnvironmentVariable = errors.New("environment variable error")
)

// UpstreamErr carries the provider's status and raw body so callers can
// forward them as diagnostics.
type UpstreamErr struct {
	*ApiErr
	UpstreamStatus int
	Body           string
}

func (e *UpstreamErr) Unwrap() error {
	return e.ApiErr
}

// LLM & upstream provider Error Constructors
func NewUpstreamError(service string, status int, body string) *UpstreamErr {
	return &UpstreamErr{
		ApiErr: &ApiErr{
			StatusCode: http.StatusInternalServerError,
			err:        ErrUpstreamFailure,
			Details:    fmt.Sprintf("%s responded with status %d", service, status),
		},
		UpstreamStatus: status,
		Body:           body,
	}
}

func NewUnexpectedResponseError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrUnexpectedResponse,
		Details:    fmt.Sprintf("Unexpected response shape from %s", service),
		Cause:      cause,
	}
}

func NewServiceUnreachableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrServiceUnreachable,
		Details:    fmt.Sprintf("Service %s is unreachable", service),
		Cause:      cause,
		Field:      "service",
	}
}

func NewServiceUnavailableError(service string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceUnavailable,
		Details:    fmt.Sprintf("%s is not available", service),
	}
}

func NewNotificationError(channel string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrNotificationFailure,
		Details:    fmt.Sprintf("Failed to deliver %s notification", channel),
		Cause:      cause,
	}
}

// Configuration & Environment Error Constructors
func NewConfigError(configName string, cause error) *ApiErr {
	details := fmt.Sprintf("Configuration error for %s", configName)
	if cause != nil {
		details = fmt.Sprintf("%s: %v", details, cause)
	}
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    details,
		Cause:      cause,
	}
}

func NewEnvironmentVariableError(varName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrEnvironmentVariable,
		Details:    fmt.Sprintf("Environment variable %s is not set or invalid", varName),
		Field:      varName,
	}
}

func NewConfigInvalidError(configName, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigInvalid,
		Details:    fmt.Sprintf("Invalid configuration for %s: %s", configName, reason),
		Field:      configName,
	}
}

// Type checkers
func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrUpstreamFailure)
}

func IsUnexpectedResponseError(err error) bool {
	return errors.Is(err, ErrUnexpectedResponse)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigMissing) || errors.Is(err, ErrConfigInvalid)
}

func IsEnvironmentVariableError(err error) bool {
	return errors.Is(err, ErrEnvironmentVariable)
}
