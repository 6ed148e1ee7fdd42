package repository

import (
	"context"

	"gorm.io/gorm"

	"movierating/internal/model"
)

// RatingRepository defines rating persistence operations.
type RatingRepository interface {
	Create(ctx context.Context, rating *model.Rating) error
	FindByID(ctx context.Context, id uint) (*model.Rating, error)
	ListByMovie(ctx context.Context, movieID uint) ([]model.Rating, error)
	List(ctx context.Context) ([]model.Rating, error)
	UpdateScore(ctx context.Context, id uint, score int) error
	Delete(ctx context.Context, id uint) error
}

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a new rating repository.
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Create creates a new rating record.
func (r *ratingRepository) Create(ctx context.Context, rating *model.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

// FindByID finds a rating by ID.
func (r *ratingRepository) FindByID(ctx context.Context, id uint) (*model.Rating, error) {
	var rating model.Rating
	if err := r.db.WithContext(ctx).First(&rating, id).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) ListByMovie(ctx context.Context, movieID uint) ([]model.Rating, error) {
	var ratings []model.Rating
	if err := r.db.WithContext(ctx).Where("movie_id = ?", movieID).Find(&ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *ratingRepository) List(ctx context.Context) ([]model.Rating, error) {
	var ratings []model.Rating
	if err := r.db.WithContext(ctx).Find(&ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

// UpdateScore updates the score of a rating.
func (r *ratingRepository) UpdateScore(ctx context.Context, id uint, score int) error {
	return r.db.WithContext(ctx).Model(&model.Rating{}).
		Where("id = ?", id).
		Update("rating", score).Error
}

// Delete removes a rating. It returns gorm.ErrRecordNotFound when no row matched.
func (r *ratingRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Rating{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
