package repository

import (
	"context"

	"github.com/movievault/movievault/internal/model"
)

// MovieRepository provides read access to the movie catalog.
type MovieRepository interface {
	// List returns the whole catalog.
	List(ctx context.Context) ([]model.Movie, error)
	// GetByTitle loads a single movie by exact title.
	GetByTitle(ctx context.Context, title string) (*model.Movie, error)
	// GetGenre returns genre details by genre name.
	GetGenre(ctx context.Context, name string) (*model.Genre, error)
	// GetDirector returns director details by director name.
	GetDirector(ctx context.Context, name string) (*model.Director, error)
}
