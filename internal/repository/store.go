package repository

import (
	"context"

	"gorm.io/gorm"

	"movierating/internal/db"
)

// Store groups the repositories that share one database handle.
type Store interface {
	Users() UserRepository
	Movies() MovieRepository
	Ratings() RatingRepository
	// WithTransaction runs fn inside a database transaction. The Store passed
	// to fn is bound to the transaction; returning an error rolls it back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
	Ping(ctx context.Context) error
}

type store struct {
	db *gorm.DB
}

// NewStore creates a GORM-backed store.
func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Users() UserRepository {
	return NewUserRepository(s.db)
}

func (s *store) Movies() MovieRepository {
	return NewMovieRepository(s.db)
}

func (s *store) Ratings() RatingRepository {
	return NewRatingRepository(s.db)
}

// WithTransaction executes a function within a database transaction.
func (s *store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &store{db: tx})
	})
}

func (s *store) Ping(ctx context.Context) error {
	return db.Ping(ctx, s.db)
}
