package repository

import (
	"context"

	"gorm.io/gorm"

	"movierating/internal/model"
)

// MovieRepository defines catalog persistence operations.
type MovieRepository interface {
	Create(ctx context.Context, movie *model.Movie) error
	FindByID(ctx context.Context, id uint) (*model.Movie, error)
	// FindByTitle returns the oldest movie whose title matches exactly.
	FindByTitle(ctx context.Context, title string) (*model.Movie, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Movie, error)
	List(ctx context.Context) ([]model.Movie, error)
}

type movieRepository struct {
	db *gorm.DB
}

// NewMovieRepository creates a new movie repository.
func NewMovieRepository(db *gorm.DB) MovieRepository {
	return &movieRepository{db: db}
}

// Create creates a new movie.
func (r *movieRepository) Create(ctx context.Context, movie *model.Movie) error {
	return r.db.WithContext(ctx).Create(movie).Error
}

// FindByID finds a movie by ID.
func (r *movieRepository) FindByID(ctx context.Context, id uint) (*model.Movie, error) {
	var movie model.Movie
	if err := r.db.WithContext(ctx).First(&movie, id).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) FindByTitle(ctx context.Context, title string) (*model.Movie, error) {
	var movie model.Movie
	if err := r.db.WithContext(ctx).Where("title = ?", title).Order("id").First(&movie).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Movie, error) {
	var movies []model.Movie
	if len(ids) == 0 {
		return movies, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&movies).Error; err != nil {
		return nil, err
	}
	return movies, nil
}

// List lists all movies.
func (r *movieRepository) List(ctx context.Context) ([]model.Movie, error) {
	var movies []model.Movie
	if err := r.db.WithContext(ctx).Find(&movies).Error; err != nil {
		return nil, err
	}
	return movies, nil
}
