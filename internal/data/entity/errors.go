package entity

import "errors"

// Domain sentinel errors. Repositories and services return these (wrapped);
// the adaptor layer maps them to HTTP status codes with errors.Is.
var (
	// ErrNotFound - the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden - the actor lacks the required role or relationship.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState - the operation is not valid for the current status.
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict - lost a race for an exclusive assignment.
	ErrConflict = errors.New("conflict")

	// ErrAlreadyRated - the booking already carries a rating.
	ErrAlreadyRated = errors.New("already rated")

	// ErrInvalidAmount - a monetary amount failed domain validation.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrValidation - request payload failed struct validation.
	ErrValidation = errors.New("validation failed")
)
