// Package common defines sentinel errors shared by the client and server
// layers. Callers match them with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Validation errors for drafts and patches.
	ErrInvalid = errors.New("invalid payload")

	// Identity errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
