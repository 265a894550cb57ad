package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. Entity-specific variants below wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when a write violates a uniqueness constraint
	// (duplicate username, email, category title, provider account, skill
	// title) or when a filter that should identify at most one row matches
	// several.
	ErrConflict = errors.New("entity conflict")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or references a row that does not exist.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed is returned when an update could not be applied even
	// though the target row exists.
	ErrUpdateFailed = errors.New("update failed")

	// Entity-specific "not found" errors.

	ErrAccountNotFound  = fmt.Errorf("%w: account", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("%w: category", ErrNotFound)
	ErrListingNotFound  = fmt.Errorf("%w: listing", ErrNotFound)
	ErrProviderNotFound = fmt.Errorf("%w: provider", ErrNotFound)
	ErrSkillNotFound    = fmt.Errorf("%w: skill", ErrNotFound)

	// Entity-specific "conflict" errors.

	ErrUsernameExists = fmt.Errorf("%w: username", ErrConflict)
	ErrEmailExists    = fmt.Errorf("%w: email", ErrConflict)
	ErrProviderExists = fmt.Errorf("%w: provider account", ErrConflict)
	ErrSkillExists    = fmt.Errorf("%w: skill title", ErrConflict)
)

// IsNotFound reports whether the error is any kind of "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether the error is any kind of uniqueness or state
// conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
