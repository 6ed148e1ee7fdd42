package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"movierating/internal/cache"
	apperrors "movierating/internal/errors"
	"movierating/internal/model"
	"movierating/internal/repository"
)

var (
	// ErrRatingNotFound is returned both for missing ratings and for ratings
	// owned by someone else on owner-scoped operations.
	ErrRatingNotFound = apperrors.New(apperrors.ErrNotFound, "rating not found")
	// ErrNoRatings is returned when listing an empty ratings table.
	ErrNoRatings = apperrors.New(apperrors.ErrNotFound, "no ratings found")
	// ErrScoreRequired is returned when an update carries no score.
	ErrScoreRequired = apperrors.New(apperrors.ErrValidation, "rating is required")
	// ErrMovieTitleRequired is returned when a submission names no movie.
	ErrMovieTitleRequired = apperrors.New(apperrors.ErrValidation, "movie_title is required")
	// ErrInvalidScore is returned for scores outside the accepted range.
	ErrInvalidScore = apperrors.New(apperrors.ErrValidation,
		fmt.Sprintf("rating must be between %d and %d", model.MinScore, model.MaxScore))
)

// ValidateScore is the single score policy for every rating write.
func ValidateScore(score int) error {
	if score < model.MinScore || score > model.MaxScore {
		return ErrInvalidScore
	}
	return nil
}

// RatingView is a rating joined to its movie and user.
type RatingView struct {
	MovieTitle string `json:"movie_title"`
	Username   string `json:"username"`
	Score      int    `json:"rating"`
}

// RatingService handles rating submission and owner-scoped mutations.
type RatingService interface {
	SubmitRating(ctx context.Context, identity *model.User, movieTitle string, score int) (*model.Rating, error)
	UpdateRating(ctx context.Context, identity *model.User, ratingID uint, score *int) (*model.Rating, error)
	DeleteRatingAsOwner(ctx context.Context, identity *model.User, ratingID uint) error
	DeleteRatingAsAdmin(ctx context.Context, identity *model.User, ratingID uint) error
	ListAllRatings(ctx context.Context) ([]RatingView, error)
}

type ratingService struct {
	store repository.Store
	cache *cache.Client
}

// NewRatingService creates a new rating service.
func NewRatingService(store repository.Store, cache *cache.Client) RatingService {
	return &ratingService{store: store, cache: cache}
}

// SubmitRating records a regular user's score for the movie with the exact title.
func (s *ratingService) SubmitRating(ctx context.Context, identity *model.User, movieTitle string, score int) (*model.Rating, error) {
	if err := RequireRegular(identity); err != nil {
		return nil, err
	}
	if strings.TrimSpace(movieTitle) == "" {
		return nil, ErrMovieTitleRequired
	}
	if err := ValidateScore(score); err != nil {
		return nil, err
	}

	rating := &model.Rating{UserID: identity.ID, Score: score}
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		movie, err := tx.Movies().FindByTitle(ctx, movieTitle)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMovieNotFound
		}
		if err != nil {
			return err
		}
		rating.MovieID = movie.ID
		return tx.Ratings().Create(ctx, rating)
	})
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	s.invalidate(ctx, rating.MovieID)
	return rating, nil
}

// UpdateRating changes the score of a rating owned by identity.
func (s *ratingService) UpdateRating(ctx context.Context, identity *model.User, ratingID uint, score *int) (*model.Rating, error) {
	if score == nil {
		return nil, ErrScoreRequired
	}
	if err := ValidateScore(*score); err != nil {
		return nil, err
	}

	var rating *model.Rating
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		var err error
		rating, err = ownedRating(ctx, tx, identity, ratingID)
		if err != nil {
			return err
		}
		if err := tx.Ratings().UpdateScore(ctx, rating.ID, *score); err != nil {
			return err
		}
		rating.Score = *score
		return nil
	})
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	s.invalidate(ctx, rating.MovieID)
	return rating, nil
}

// DeleteRatingAsOwner deletes a rating owned by identity.
func (s *ratingService) DeleteRatingAsOwner(ctx context.Context, identity *model.User, ratingID uint) error {
	var movieID uint
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		rating, err := ownedRating(ctx, tx, identity, ratingID)
		if err != nil {
			return err
		}
		movieID = rating.MovieID
		return deleteRating(ctx, tx, rating.ID)
	})
	if err != nil {
		return apperrors.Classify(err)
	}

	s.invalidate(ctx, movieID)
	return nil
}

// DeleteRatingAsAdmin deletes any rating. Admin only.
func (s *ratingService) DeleteRatingAsAdmin(ctx context.Context, identity *model.User, ratingID uint) error {
	if err := RequireAdmin(identity); err != nil {
		return err
	}

	var movieID uint
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		rating, err := tx.Ratings().FindByID(ctx, ratingID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRatingNotFound
		}
		if err != nil {
			return err
		}
		if err := RequireOwnerOrAdmin(identity, rating.UserID, true); err != nil {
			return err
		}
		movieID = rating.MovieID
		return deleteRating(ctx, tx, rating.ID)
	})
	if err != nil {
		return apperrors.Classify(err)
	}

	s.invalidate(ctx, movieID)
	return nil
}

// ListAllRatings joins every rating to its movie title and username.
// Ratings whose movie or user cannot be resolved are skipped.
func (s *ratingService) ListAllRatings(ctx context.Context) ([]RatingView, error) {
	ratings, err := s.store.Ratings().List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if len(ratings) == 0 {
		return nil, ErrNoRatings
	}

	movieIDs := make([]uint, 0, len(ratings))
	userIDs := make([]uint, 0, len(ratings))
	for _, r := range ratings {
		movieIDs = append(movieIDs, r.MovieID)
		userIDs = append(userIDs, r.UserID)
	}

	movies, err := s.store.Movies().FindByIDs(ctx, dedupe(movieIDs))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	users, err := s.store.Users().FindByIDs(ctx, dedupe(userIDs))
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	titles := make(map[uint]string, len(movies))
	for _, m := range movies {
		titles[m.ID] = m.Title
	}
	usernames := make(map[uint]string, len(users))
	for _, u := range users {
		usernames[u.ID] = u.Username
	}

	views := make([]RatingView, 0, len(ratings))
	for _, r := range ratings {
		title, okMovie := titles[r.MovieID]
		username, okUser := usernames[r.UserID]
		if !okMovie || !okUser {
			continue
		}
		views = append(views, RatingView{MovieTitle: title, Username: username, Score: r.Score})
	}
	return views, nil
}

func (s *ratingService) invalidate(ctx context.Context, movieID uint) {
	invalidateMovie(ctx, s.cache, movieID)
}

// ownedRating loads a rating for an owner-scoped operation. A rating owned by
// someone else is reported exactly like a missing one.
func ownedRating(ctx context.Context, tx repository.Store, identity *model.User, ratingID uint) (*model.Rating, error) {
	if identity == nil {
		return nil, ErrRatingNotFound
	}
	rating, err := tx.Ratings().FindByID(ctx, ratingID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRatingNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := RequireOwnerOrAdmin(identity, rating.UserID, false); err != nil {
		return nil, ErrRatingNotFound
	}
	return rating, nil
}

func deleteRating(ctx context.Context, tx repository.Store, id uint) error {
	err := tx.Ratings().Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRatingNotFound
	}
	return err
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
