package service

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type ValidationCode string

const (
	ValidationMissingTitle     ValidationCode = "missing-title"
	ValidationMissingTimes     ValidationCode = "missing-times"
	ValidationInvalidTimeOrder ValidationCode = "invalid-time-order"
	ValidationMissingFaculty   ValidationCode = "missing-faculty"
	ValidationMissingRoom      ValidationCode = "missing-room"
)

// ValidationError reports a structural problem with a candidate event. It
// matches ErrInvalidInput under errors.Is so handlers can map it uniformly.
type ValidationError struct {
	Code    ValidationCode
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ConflictError reports a room or faculty double booking. With identifies the
// existing event the candidate collides with, Dimension names the shared
// resource ("room" or "faculty").
type ConflictError struct {
	Message   string
	With      uuid.UUID
	Dimension string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
