package service

import (
	"context"
	"fmt"

	"github.com/movievault/movievault/internal/errs"
	"github.com/movievault/movievault/internal/model"
	"github.com/movievault/movievault/internal/repository"
)

// MovieService defines read operations over the movie catalog.
type MovieService interface {
	// List returns the whole catalog.
	List(ctx context.Context) ([]model.Movie, error)
	// GetByTitle loads a movie by exact title.
	GetByTitle(ctx context.Context, title string) (*model.Movie, error)
	// GetGenre returns genre details by name.
	GetGenre(ctx context.Context, name string) (*model.Genre, error)
	// GetDirector returns director details by name.
	GetDirector(ctx context.Context, name string) (*model.Director, error)
}

type MovieServiceImpl struct {
	movies repository.MovieRepository
}

// NewMovieService constructs MovieService.
func NewMovieService(movies repository.MovieRepository) *MovieServiceImpl {
	return &MovieServiceImpl{movies: movies}
}

// List returns the whole catalog.
func (s *MovieServiceImpl) List(ctx context.Context) ([]model.Movie, error) {
	return s.movies.List(ctx)
}

// GetByTitle loads a movie by exact title.
func (s *MovieServiceImpl) GetByTitle(ctx context.Context, title string) (*model.Movie, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: empty title", errs.ErrValidation)
	}
	return s.movies.GetByTitle(ctx, title)
}

// GetGenre returns genre details by name.
func (s *MovieServiceImpl) GetGenre(ctx context.Context, name string) (*model.Genre, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty genre name", errs.ErrValidation)
	}
	return s.movies.GetGenre(ctx, name)
}

// GetDirector returns director details by name.
func (s *MovieServiceImpl) GetDirector(ctx context.Context, name string) (*model.Director, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty director name", errs.ErrValidation)
	}
	return s.movies.GetDirector(ctx, name)
}
