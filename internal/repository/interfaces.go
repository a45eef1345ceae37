// Package repository declares the persistence contracts used by services.
// Implementations treat soft-deleted rows as absent.
package repository

import "errors"

var (
	// ErrNotFound is returned for missing and soft-deleted records.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("duplicate record")
)
