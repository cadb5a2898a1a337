package users

import (
	"context"

	"github.com/dmitrijs2005/cheatsync/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
}
