// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/movievault/movievault/internal/model"
)

// UserRepository provides CRUD access to user accounts. The read side doubles
// as the credential store for login and token verification.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by id.
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	// GetByUsername loads a user by username.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// Update applies the non-nil fields of upd and returns the updated user.
	Update(ctx context.Context, username string, upd model.UserUpdate) (*model.User, error)
	// AddFavorite adds a movie reference to the user's favorites set.
	AddFavorite(ctx context.Context, username string, movieID primitive.ObjectID) (*model.User, error)
	// RemoveFavorite removes a movie reference from the user's favorites set.
	RemoveFavorite(ctx context.Context, username string, movieID primitive.ObjectID) (*model.User, error)
	// Delete removes the account.
	Delete(ctx context.Context, username string) error
}
