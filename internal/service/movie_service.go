package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"movierating/internal/cache"
	apperrors "movierating/internal/errors"
	"movierating/internal/model"
	"movierating/internal/repository"
)

const movieCacheTTL = 5 * time.Minute

var (
	// ErrMovieNotFound is returned when no movie matches.
	ErrMovieNotFound = apperrors.New(apperrors.ErrNotFound, "movie not found")
	// ErrTitleRequired is returned when a movie has no title.
	ErrTitleRequired = apperrors.New(apperrors.ErrValidation, "title is required")
	// ErrReleaseYearRequired is returned when a movie has no release year.
	ErrReleaseYearRequired = apperrors.New(apperrors.ErrValidation, "release_year is required")
)

// RatingEntry is one rating in a movie detail.
type RatingEntry struct {
	UserID uint `json:"user_id"`
	Score  int  `json:"rating"`
}

// MovieDetail is a movie with all of its ratings, in no particular order.
type MovieDetail struct {
	ID          uint          `json:"movie_id"`
	Title       string        `json:"title"`
	ReleaseYear *int          `json:"release_year"`
	Ratings     []RatingEntry `json:"ratings"`
}

// MovieService handles catalog operations.
type MovieService interface {
	AddMovie(ctx context.Context, identity *model.User, title string, releaseYear *int) (*model.Movie, error)
	GetMovie(ctx context.Context, id uint) (*MovieDetail, error)
	ListMovies(ctx context.Context) ([]model.Movie, error)
}

type movieService struct {
	store repository.Store
	cache *cache.Client
}

// NewMovieService creates a new movie service.
func NewMovieService(store repository.Store, cache *cache.Client) MovieService {
	return &movieService{store: store, cache: cache}
}

// Movie details are cached under a per-movie version. Rating writes bump the
// version after they commit, so a snapshot read before a write lands under a
// version no reader will ask for again.
func movieVersionKey(id uint) string {
	return fmt.Sprintf("movie:%d:version", id)
}

func movieCacheKey(id uint, version int64) string {
	return fmt.Sprintf("movie:%d:v%d", id, version)
}

func movieVersion(ctx context.Context, c *cache.Client, id uint) int64 {
	data, _ := c.Get(ctx, movieVersionKey(id))
	if data == nil {
		return 0
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// invalidateMovie retires the cached detail of a movie.
func invalidateMovie(ctx context.Context, c *cache.Client, id uint) {
	if next := c.Incr(ctx, movieVersionKey(id)); next > 0 {
		_ = c.Delete(ctx, movieCacheKey(id, next-1))
	}
}

// AddMovie adds a movie to the catalog. Admin only.
func (s *movieService) AddMovie(ctx context.Context, identity *model.User, title string, releaseYear *int) (*model.Movie, error) {
	if err := RequireAdmin(identity); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if releaseYear == nil {
		return nil, ErrReleaseYearRequired
	}

	movie := &model.Movie{Title: title, ReleaseYear: releaseYear}
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		return tx.Movies().Create(ctx, movie)
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return movie, nil
}

// GetMovie returns a movie with its ratings, served from cache when possible.
func (s *movieService) GetMovie(ctx context.Context, id uint) (*MovieDetail, error) {
	key := movieCacheKey(id, movieVersion(ctx, s.cache, id))
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached MovieDetail
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	movie, err := s.store.Movies().FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMovieNotFound
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	ratings, err := s.store.Ratings().ListByMovie(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	detail := &MovieDetail{
		ID:          movie.ID,
		Title:       movie.Title,
		ReleaseYear: movie.ReleaseYear,
		Ratings:     make([]RatingEntry, 0, len(ratings)),
	}
	for _, r := range ratings {
		detail.Ratings = append(detail.Ratings, RatingEntry{UserID: r.UserID, Score: r.Score})
	}

	if payload, err := json.Marshal(detail); err == nil {
		_ = s.cache.Set(ctx, key, payload, movieCacheTTL)
	}
	return detail, nil
}

// ListMovies lists the catalog.
func (s *movieService) ListMovies(ctx context.Context) ([]model.Movie, error) {
	movies, err := s.store.Movies().List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return movies, nil
}
