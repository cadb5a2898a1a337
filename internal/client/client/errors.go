package client

import "errors"

var (
	// ErrUnavailable means the remote store could not be reached; retry later.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized means the identity token was rejected.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound means the record does not exist for this identity.
	ErrNotFound = errors.New("record not found")

	// ErrInvalid means the remote store rejected the payload.
	ErrInvalid = errors.New("invalid payload")
)
