// Package models holds server-only records. Sheet and category records are
// shared with the client and live in internal/models.
package models

import "time"

// User is an anonymous identity. Sheets and categories are owned by a user id.
type User struct {
	ID        string
	CreatedAt time.Time
}
