package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/movievault/movievault/internal/errs"
	"github.com/movievault/movievault/internal/model"
)

// UserRepo implements repository.UserRepository on the users collection.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user document. A duplicate username maps to
// errs.ErrAlreadyExists via the unique index.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	opCtx, cancel := r.db.opCtx(ctx)
	defer cancel()

	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.FavoriteMovies == nil {
		u.FavoriteMovies = []primitive.ObjectID{}
	}
	u.CreatedAt = time.Now().UTC()

	_, err := r.db.Users.InsertOne(opCtx, u)
	if mongo.IsDuplicateKeyError(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByID selects a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByUsername selects a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	opCtx, cancel := r.db.opCtx(ctx)
	defer cancel()

	var u model.User
	if err := r.db.Users.FindOne(opCtx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Update applies the non-nil fields of upd to the user identified by username
// and returns the updated document.
func (r *UserRepo) Update(ctx context.Context, username string, upd model.UserUpdate) (*model.User, error) {
	set := bson.M{}
	if upd.Username != nil {
		set["username"] = *upd.Username
	}
	if upd.Password != nil {
		// service layer has already hashed it
		set["password_hash"] = *upd.Password
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Birthday != nil {
		set["birthday"] = *upd.Birthday
	}
	if len(set) == 0 {
		return r.GetByUsername(ctx, username)
	}

	opCtx, cancel := r.db.opCtx(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u model.User
	err := r.db.Users.FindOneAndUpdate(opCtx, bson.M{"username": username}, bson.M{"$set": set}, opts).Decode(&u)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, errs.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return nil, errs.ErrAlreadyExists
	case err != nil:
		return nil, err
	}
	return &u, nil
}

// AddFavorite adds movieID to the favorites set. $addToSet keeps the
// operation idempotent.
func (r *UserRepo) AddFavorite(ctx context.Context, username string, movieID primitive.ObjectID) (*model.User, error) {
	return r.updateFavorites(ctx, username, bson.M{"$addToSet": bson.M{"favorite_movies": movieID}})
}

// RemoveFavorite removes movieID from the favorites set; removing an absent
// reference is a no-op.
func (r *UserRepo) RemoveFavorite(ctx context.Context, username string, movieID primitive.ObjectID) (*model.User, error) {
	return r.updateFavorites(ctx, username, bson.M{"$pull": bson.M{"favorite_movies": movieID}})
}

func (r *UserRepo) updateFavorites(ctx context.Context, username string, update bson.M) (*model.User, error) {
	opCtx, cancel := r.db.opCtx(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u model.User
	if err := r.db.Users.FindOneAndUpdate(opCtx, bson.M{"username": username}, update, opts).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Delete removes the account.
func (r *UserRepo) Delete(ctx context.Context, username string) error {
	opCtx, cancel := r.db.opCtx(ctx)
	defer cancel()

	res, err := r.db.Users.DeleteOne(opCtx, bson.M{"username": username})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}
