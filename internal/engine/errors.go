package engine

import "errors"

// ValidationError rejects input before any state changes.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// LimitExceededError rejects an amount that breaches a balance or
// remaining-due ceiling.
type LimitExceededError struct {
	Msg string
}

func (e *LimitExceededError) Error() string { return e.Msg }

// IntegrityConflictError surfaces a storage-level constraint violation
// (duplicate key, missing reference, overdraw guard).
type IntegrityConflictError struct {
	Msg string
}

func (e *IntegrityConflictError) Error() string { return e.Msg }

func NewValidation(msg string) error    { return &ValidationError{Msg: msg} }
func NewLimitExceeded(msg string) error { return &LimitExceededError{Msg: msg} }
func NewConflict(msg string) error      { return &IntegrityConflictError{Msg: msg} }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsLimitExceeded(err error) bool {
	var le *LimitExceededError
	return errors.As(err, &le)
}

func IsConflict(err error) bool {
	var ce *IntegrityConflictError
	return errors.As(err, &ce)
}
