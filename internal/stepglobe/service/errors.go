package service

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Error kinds. The text is the wire error code.
var (
	ErrIdentityRejected   = errors.New("identity_rejected")
	ErrIdentityExpired    = errors.New("identity_expired")
	ErrSessionInvalid     = errors.New("session_invalid")
	ErrBackendUnavailable = errors.New("backend_unavailable")
	ErrAccountPending     = errors.New("account_pending")
	ErrAccessDenied       = errors.New("access_denied")
	ErrAccountNotFound    = errors.New("account_not_found")
	ErrValidation         = errors.New("validation_error")
)

// ValidationError lists per-field problems. It matches ErrValidation.
type ValidationError struct {
	Details map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Details))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Details[k]
	}
	return "validation_error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, msg string) error {
	return &ValidationError{Details: map[string]string{field: msg}}
}

// unavailable marks err as a backend failure while keeping it in the chain.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrBackendUnavailable, op, err)
}
