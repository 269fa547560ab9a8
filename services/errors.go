package services

import "errors"

// Error categories. Specific failures wrap one of these so handlers can
// map them to HTTP status codes with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
	ErrNotEligible  = errors.New("not eligible")
)

// ErrDuplicateKey is returned by Store implementations when an insert
// violates a unique constraint (job reference, phone number).
var ErrDuplicateKey = errors.New("duplicate key")
