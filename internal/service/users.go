package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	pkgcrypto "github.com/movievault/movievault/internal/crypto"
	"github.com/movievault/movievault/internal/errs"
	"github.com/movievault/movievault/internal/model"
	"github.com/movievault/movievault/internal/repository"
)

// UserService defines account and favorites operations for authenticated users.
type UserService interface {
	// Get loads an account by username.
	Get(ctx context.Context, username string) (*model.User, error)
	// Update applies a partial account update; a new password is re-hashed.
	Update(ctx context.Context, username string, upd model.UserUpdate) (*model.User, error)
	// AddFavorite adds a movie reference to the favorites set.
	AddFavorite(ctx context.Context, username string, movieID primitive.ObjectID) (*model.User, error)
	// RemoveFavorite removes a movie reference from the favorites set.
	RemoveFavorite(ctx context.Context, username string, movieID primitive.ObjectID) (*model.User, error)
	// Delete removes the account.
	Delete(ctx context.Context, username string) error
}

type UserServiceImpl struct {
	users repository.UserRepository
	cost  int
}

// NewUserService constructs UserService.
func NewUserService(users repository.UserRepository, bcryptCost int) *UserServiceImpl {
	return &UserServiceImpl{users: users, cost: bcryptCost}
}

// Get loads an account by username.
func (s *UserServiceImpl) Get(ctx context.Context, username string) (*model.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: empty username", errs.ErrValidation)
	}
	return s.users.GetByUsername(ctx, username)
}

// Update validates the changed fields and hashes a new password before it
// reaches storage. The stored hash is replaced atomically with the rest of
// the update.
func (s *UserServiceImpl) Update(ctx context.Context, username string, upd model.UserUpdate) (*model.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: empty username", errs.ErrValidation)
	}
	if upd.Username != nil && !usernameRe.MatchString(*upd.Username) {
		return nil, fmt.Errorf("%w: username must be 3-30 alphanumeric characters", errs.ErrValidation)
	}
	if upd.Password != nil {
		hash, err := pkgcrypto.HashPassword(*upd.Password, s.cost)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrValidation, err)
		}
		upd.Password = &hash
	}
	return s.users.Update(ctx, username, upd)
}

// AddFavorite adds movieID to the user's favorites set.
func (s *UserServiceImpl) AddFavorite(ctx context.Context, username string, movieID primitive.ObjectID) (*model.User, error) {
	if username == "" || movieID.IsZero() {
		return nil, fmt.Errorf("%w: empty username/movie id", errs.ErrValidation)
	}
	return s.users.AddFavorite(ctx, username, movieID)
}

// RemoveFavorite removes movieID from the user's favorites set.
func (s *UserServiceImpl) RemoveFavorite(ctx context.Context, username string, movieID primitive.ObjectID) (*model.User, error) {
	if username == "" || movieID.IsZero() {
		return nil, fmt.Errorf("%w: empty username/movie id", errs.ErrValidation)
	}
	return s.users.RemoveFavorite(ctx, username, movieID)
}

// Delete removes the account.
func (s *UserServiceImpl) Delete(ctx context.Context, username string) error {
	if username == "" {
		return fmt.Errorf("%w: empty username", errs.ErrValidation)
	}
	return s.users.Delete(ctx, username)
}
