package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrForbidden indicates the caller may not act on the target resource.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized indicates the caller identity could not be established.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials indicates an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// NotFoundError reports a referenced entity missing from the store.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// ValidationError reports a violated domain rule.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ConflictError reports an attempt to create an entity that must be unique.
type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// ConfigurationError reports lab settings that make a derivation undefined.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return e.Reason
}

// StoreError wraps a persistence failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func notFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// lookupErr maps a repository read failure for entity.
func lookupErr(entity string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(entity)
	}
	return storeErr("find "+entity, err)
}

// writeErr maps a repository write failure, turning unique violations into conflicts.
func writeErr(entity string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &ConflictError{Entity: entity}
	}
	return storeErr("save "+entity, err)
}

// passThrough returns taxonomy errors unchanged and wraps anything else as a store failure.
func passThrough(op string, err error) error {
	var (
		nf  *NotFoundError
		ve  *ValidationError
		ce  *ConflictError
		cfg *ConfigurationError
		se  *StoreError
	)
	switch {
	case errors.As(err, &nf), errors.As(err, &ve), errors.As(err, &ce), errors.As(err, &cfg), errors.As(err, &se),
		errors.Is(err, ErrForbidden), errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		return err
	default:
		return storeErr(op, err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}
