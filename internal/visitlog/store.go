// Package visitlog records what happened during a hall session: exhibits
// shown, restricted-access attempts, and trap transitions. The log is
// append-only and read back for curatorial review, never consulted by the
// state machine itself.
package visitlog

import (
	"context"
	"time"
)

// EventType classifies one visit-log entry.
type EventType string

const (
	// EventExhibitShown records a slideshow switching to an exhibit.
	EventExhibitShown EventType = "exhibit_shown"

	// EventExhibitDenied records a rejected public navigation attempt.
	EventExhibitDenied EventType = "exhibit_denied"

	// EventAccessGranted records a successful restricted-access attempt.
	EventAccessGranted EventType = "access_granted"

	// EventAccessDenied records a failed restricted-access attempt.
	EventAccessDenied EventType = "access_denied"

	// EventTrapEngaged records the trap firing.
	EventTrapEngaged EventType = "trap_engaged"

	// EventTrapReleased records a successful release.
	EventTrapReleased EventType = "trap_released"

	// EventReleaseDenied records a failed release attempt.
	EventReleaseDenied EventType = "release_denied"
)

// Event is one visit-log entry.
type Event struct {
	// Timestamp marks when the event occurred. The zero value is replaced
	// with the current time by Record implementations.
	Timestamp time.Time

	// Type classifies the event.
	Type EventType

	// ExhibitID names the exhibit involved, when applicable.
	ExhibitID string

	// Detail is a short free-text annotation (e.g., the rejected id).
	// Spoken passphrases are never stored here.
	Detail string
}

// Store is the append-only visit log.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Record appends one event.
	Record(ctx context.Context, e Event) error

	// Recent returns up to limit events, newest first.
	Recent(ctx context.Context, limit int) ([]Event, error)
}
