// Package refreshtokens stores the refresh tokens that keep an anonymous
// identity alive across access-token expiry.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/cheatsync/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string, token string, expires time.Time) error
	// Find returns common.ErrNotFound for an unknown token.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	// Delete returns common.ErrNotFound when the token was already gone.
	Delete(ctx context.Context, token string) error
}
