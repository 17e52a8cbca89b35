// Package users implements the credential store: persistence of identity
// records keyed by id and unique email.
package users

import (
	"context"

	"github.com/campuslink/campuslink/internal/server/models"
)

type Repository interface {
	// Create inserts a new user. A concurrent insert with the same email is
	// resolved by the store's unique constraint; the loser receives
	// common.ErrorDuplicateEmail.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns common.ErrorNotFound when no such account exists.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns common.ErrorNotFound when no such account exists.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// DeleteByID reports whether a row was actually removed.
	DeleteByID(ctx context.Context, id string) (bool, error)

	// List returns all users, oldest first.
	List(ctx context.Context) ([]*models.User, error)
}
