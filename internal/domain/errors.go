package domain

import "errors"

var (
	// ErrNotFound is returned by stores when the requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique key already exists
	ErrDuplicate = errors.New("duplicate key")
)
