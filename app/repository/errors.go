package repository

import "errors"

// Backend-neutral errors. Every implementation maps its driver errors onto these.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)
