// Package users provides user persistence for PostgreSQL, MongoDB and memory.
package users

import (
	"context"

	"github.com/dmitrijs2005/travelbook/internal/server/models"
)

// Repository stores accounts. Create reports a taken email as
// common.ErrorAlreadyExists; lookups report absence as common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
