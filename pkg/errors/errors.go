package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeAuthentication represents missing/invalid identity on a gated operation
	ErrorTypeAuthentication ErrorType = "authentication"
	// ErrorTypeToken represents malformed or unverifiable bearer tokens
	ErrorTypeToken ErrorType = "token"
	// ErrorTypeCredentials represents login failures
	ErrorTypeCredentials ErrorType = "credentials"
	// ErrorTypeValidation represents entity persistence constraint violations
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeNotFound represents a referenced entity being absent
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeStore represents entity store failures
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Authentication Errors

// AuthenticationError is returned when a gated operation runs without an
// authenticated account in context
type AuthenticationError struct {
	*BaseError
	Operation string
}

func NewAuthenticationError(operation string) *AuthenticationError {
	return &AuthenticationError{
		BaseError: NewBaseError(ErrorTypeAuthentication, "not authenticated", nil),
		Operation: operation,
	}
}

// Token Errors

// InvalidTokenError is returned when a bearer token is malformed or its
// signature does not verify
type InvalidTokenError struct {
	*BaseError
}

func NewInvalidTokenError(reason string, err error) *InvalidTokenError {
	return &InvalidTokenError{
		BaseError: NewBaseError(ErrorTypeToken, reason, err),
	}
}

// Credential Errors

// InvalidCredentialsError is returned when login fails
type InvalidCredentialsError struct {
	*BaseError
}

func NewInvalidCredentialsError() *InvalidCredentialsError {
	return &InvalidCredentialsError{
		BaseError: NewBaseError(ErrorTypeCredentials, "wrong credentials", nil),
	}
}

// Validation Errors

// ValidationError is returned when a persistence constraint is violated.
// InvalidArgs names the offending fields.
type ValidationError struct {
	*BaseError
	InvalidArgs map[string]string
}

func NewValidationError(message string, invalidArgs map[string]string) *ValidationError {
	return &ValidationError{
		BaseError:   NewBaseError(ErrorTypeValidation, message, nil),
		InvalidArgs: invalidArgs,
	}
}

// NotFound Errors

// NotFoundError is returned when a referenced entity is absent and the
// operation cannot proceed without it
type NotFoundError struct {
	*BaseError
	Entity string
	Key    string
}

func NewNotFoundError(entity, key string) *NotFoundError {
	return &NotFoundError{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("%s not found: %s", entity, key), nil),
		Entity:    entity,
		Key:       key,
	}
}

// Store Errors

// StoreError is returned when an entity store operation fails
type StoreError struct {
	*BaseError
	Operation string
}

func NewStoreError(operation string, err error) *StoreError {
	return &StoreError{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("store operation failed: %s", operation), err),
		Operation: operation,
	}
}

// Config Errors

// ConfigMissingRequiredError is returned when a required config value is missing
type ConfigMissingRequiredError struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ConfigMissingRequiredError {
	return &ConfigMissingRequiredError{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// IsAuthentication reports whether err is an authentication gating failure
func IsAuthentication(err error) bool {
	var e *AuthenticationError
	return errors.As(err, &e)
}

// IsInvalidToken reports whether err is a token verification failure
func IsInvalidToken(err error) bool {
	var e *InvalidTokenError
	return errors.As(err, &e)
}

// IsInvalidCredentials reports whether err is a login failure
func IsInvalidCredentials(err error) bool {
	var e *InvalidCredentialsError
	return errors.As(err, &e)
}

// IsValidation reports whether err is a persistence constraint violation
func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// IsNotFound reports whether err is an absent-entity failure
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}
