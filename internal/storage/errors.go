package storage

import "errors"

// Shared across the memory and postgres store implementations so delivery
// code can branch without knowing the backing store.
var (
	ErrNotFound = errors.New("no such resource")
	ErrConflict = errors.New("resource already exists")
)
