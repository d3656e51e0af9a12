package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/movievault/movievault/internal/errs"
	"github.com/movievault/movievault/internal/model"
)

// MovieRepo implements repository.MovieRepository on the movies collection.
type MovieRepo struct{ db *DB }

// NewMovieRepo constructs a movie repository.
func NewMovieRepo(db *DB) *MovieRepo { return &MovieRepo{db: db} }

// List returns all catalog entries.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	opCtx, cancel := r.db.opCtx(ctx)
	defer cancel()

	cur, err := r.db.Movies.Find(opCtx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(opCtx)

	movies := []model.Movie{}
	if err := cur.All(opCtx, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// GetByTitle loads a single movie by exact title.
func (r *MovieRepo) GetByTitle(ctx context.Context, title string) (*model.Movie, error) {
	return r.findOne(ctx, bson.M{"title": title})
}

// GetGenre returns the genre embedded in any movie of that genre.
func (r *MovieRepo) GetGenre(ctx context.Context, name string) (*model.Genre, error) {
	m, err := r.findOne(ctx, bson.M{"genre.name": name})
	if err != nil {
		return nil, err
	}
	return &m.Genre, nil
}

// GetDirector returns the director embedded in any movie they directed.
func (r *MovieRepo) GetDirector(ctx context.Context, name string) (*model.Director, error) {
	m, err := r.findOne(ctx, bson.M{"director.name": name})
	if err != nil {
		return nil, err
	}
	return &m.Director, nil
}

func (r *MovieRepo) findOne(ctx context.Context, filter bson.M) (*model.Movie, error) {
	opCtx, cancel := r.db.opCtx(ctx)
	defer cancel()

	var m model.Movie
	if err := r.db.Movies.FindOne(opCtx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}
