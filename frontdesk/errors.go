package frontdesk

import (
	"errors"
	"fmt"

	"hotel-frontdesk/models"
)

var (
	// ErrInvalidTransition: the room is not in the state the command requires.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrValidation: a command field is missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized: the authorization code matched no configured role.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound: the room or ledger record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConsistency: a transition would break the room/ledger relationship. This is a
	// programming error and is never committed.
	ErrConsistency = errors.New("consistency violation")
)

// TransitionError names the operation and the state that refused it.
type TransitionError struct {
	Op     string
	RoomID uint
	From   models.RoomStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: room %d is %s", e.Op, e.RoomID, e.From)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// ValidationError is a field-level rejection.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func refuse(op string, room models.Room) error {
	return &TransitionError{Op: op, RoomID: room.ID, From: room.Status}
}

func roomNotFound(id uint) error {
	return fmt.Errorf("room %d: %w", id, ErrNotFound)
}

func consistencyf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConsistency, fmt.Sprintf(format, args...))
}
