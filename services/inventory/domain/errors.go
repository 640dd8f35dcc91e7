package domain

import "errors"

// Sentinel errors for the inventory domain. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates the requested item does not exist or is not
	// owned by the requesting user.
	ErrItemNotFound = errors.New("item not found")

	// ErrTagNotFound indicates the requested tag does not exist for the user.
	ErrTagNotFound = errors.New("tag not found")

	// ErrLocationNotFound indicates the requested location does not exist for the user.
	ErrLocationNotFound = errors.New("location not found")

	// ErrNameConflict indicates a rename would collide with an existing
	// tag or location name owned by the same user.
	ErrNameConflict = errors.New("name already exists")

	// ErrInvalidItem indicates the submitted item violates domain constraints.
	ErrInvalidItem = errors.New("invalid item")
)
