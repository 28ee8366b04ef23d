package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert would violate a uniqueness
// rule, such as favoriting the same car twice.
var ErrDuplicate = errors.New("duplicate")
