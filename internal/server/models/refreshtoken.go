package models

import "time"

// RefreshToken lets a client renew an expired access token for the same user.
type RefreshToken struct {
	UserID  string
	Token   string
	Expires time.Time
}
