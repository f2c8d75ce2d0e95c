package repository

import "errors"

// Sentinel errors for the certification store.
var (
	ErrMalformedRow = errors.New("malformed certification row")
	ErrClosed       = errors.New("certification store closed")
)
