// Package services defines the document lifecycle: create, fetch, and purge
// of ephemeral markdown records. This file centralizes the service-level
// error values so that they can be consistently returned by service methods
// and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import (
	"errors"
	"fmt"
)

// ErrValidation is the parent of every input error. Validation always runs
// before any store access.
var ErrValidation = errors.New("validation failed")

// Input errors. Each wraps ErrValidation.
var (
	// ErrEmptyContent is returned when the document content is missing or blank.
	ErrEmptyContent = fmt.Errorf("%w: content is required and must be non-empty text", ErrValidation)

	// ErrInvalidContent is returned when the content is not valid UTF-8 text.
	ErrInvalidContent = fmt.Errorf("%w: content must be valid UTF-8 text", ErrValidation)

	// ErrContentTooLarge is returned when the content exceeds the configured cap.
	ErrContentTooLarge = fmt.Errorf("%w: content too large", ErrValidation)

	// ErrInvalidID is returned for identifiers that are malformed.
	ErrInvalidID = fmt.Errorf("%w: invalid document id", ErrValidation)
)

// Lifecycle errors.
var (
	// ErrNotFound indicates the document never existed, was purged, or was
	// evicted by the store's native expiry.
	ErrNotFound = errors.New("document not found")

	// ErrExpired indicates the document was found but is past its expiry.
	ErrExpired = errors.New("document expired")

	// ErrStoreUnavailable wraps backend failures. The wrapped cause is meant
	// for logs only.
	ErrStoreUnavailable = errors.New("storage unavailable")
)
