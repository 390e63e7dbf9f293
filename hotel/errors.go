/*
errors.go - Centralized error types for the front-desk core

ERROR CATEGORIES:
  1. Not-found   - room absent from the registry, nothing to export
  2. Validation  - bad column set, malformed numbers, duplicate rooms
  3. Range       - ledger deletion position beyond the current list
  4. I/O         - underlying table read/write failures (wrapped as-is)

Lookup failures are ordinary return values, not exceptional: the shell
maps them onto user-facing messages and leaves state untouched.
*/
package hotel

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrRoomNotFound is returned when a room has no active guest record.
	// A missing registry file counts as "every room not found".
	ErrRoomNotFound = errors.New("room not found in registry")

	// ErrPositionOutOfRange is returned when a charge deletion names a
	// position at or beyond the room's current charge count.
	ErrPositionOutOfRange = errors.New("charge position out of range")

	// ErrValidation is the root of every validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrNoCharges is returned by exports and the season reset when the
	// ledger file does not exist yet.
	ErrNoCharges = errors.New("no charges recorded")

	// ErrNoCheckouts is returned by the checkout handover export when no
	// room is scheduled to leave today.
	ErrNoCheckouts = errors.New("no checkouts scheduled for today")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// MissingColumnError reports the first required column absent from an
// uploaded guest table. Only the first one, matching what operators see.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column: %s", e.Column)
}

func (e *MissingColumnError) Unwrap() error { return ErrValidation }

// DuplicateRoomError reports a room number appearing twice in an
// uploaded guest table.
type DuplicateRoomError struct {
	Room int
}

func (e *DuplicateRoomError) Error() string {
	return fmt.Sprintf("duplicate room number in guest table: %d", e.Room)
}

func (e *DuplicateRoomError) Unwrap() error { return ErrValidation }

// FieldError reports a single malformed field value (bad room number,
// bad bed count, unparseable amount).
type FieldError struct {
	Field string
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

func (e *FieldError) Unwrap() error { return ErrValidation }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether err represents a missing room or missing
// data file rather than a real failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrNoCharges) ||
		errors.Is(err, ErrNoCheckouts) ||
		errors.Is(err, ErrPositionOutOfRange)
}

// IsClientError reports whether err is the caller's fault (bad input)
// as opposed to an I/O failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation)
}
