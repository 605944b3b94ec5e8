package repository

import "errors"

var (
	ErrNotFound  = errors.New("resource not found")
	ErrDuplicate = errors.New("duplicate resource")

	// ErrVersionConflict signals that an optimistic write lost the race: the
	// entity was modified since it was read. Callers re-read and retry or
	// surface a conflict.
	ErrVersionConflict = errors.New("stale entity version")
)
