package services

import "errors"

var (
	// ErrNotFound signals an unknown product identity.
	ErrNotFound = errors.New("product not found")
	// ErrInvalidLimit signals a non-positive page size.
	ErrInvalidLimit = errors.New("limit must be a positive integer")
)
