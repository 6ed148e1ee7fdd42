package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"movierating/internal/db"
	"movierating/internal/model"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	gormDB, err := db.NewSQLite("file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewStore(gormDB)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	user := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"}
	require.NoError(t, s.Users().Create(ctx, user))
	assert.NotZero(t, user.ID)

	byName, err := s.Users().FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
	assert.False(t, byName.IsAdmin)

	byEmail, err := s.Users().FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = s.Users().FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	dup := &model.User{Username: "alice", Email: "other@example.com", PasswordHash: "hash"}
	assert.Error(t, s.Users().Create(ctx, dup))

	users, err := s.Users().FindByIDs(ctx, []uint{user.ID, 999})
	require.NoError(t, err)
	assert.Len(t, users, 1)

	empty, err := s.Users().FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMovieRepository_FindByTitle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	year := 2010
	first := &model.Movie{Title: "Inception", ReleaseYear: &year}
	require.NoError(t, s.Movies().Create(ctx, first))
	require.NoError(t, s.Movies().Create(ctx, &model.Movie{Title: "Inception"}))

	found, err := s.Movies().FindByTitle(ctx, "Inception")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	require.NotNil(t, found.ReleaseYear)
	assert.Equal(t, 2010, *found.ReleaseYear)

	_, err = s.Movies().FindByTitle(ctx, "Incep")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	movies, err := s.Movies().List(ctx)
	require.NoError(t, err)
	assert.Len(t, movies, 2)
}

func TestRatingRepository(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	user := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"}
	require.NoError(t, s.Users().Create(ctx, user))
	movie := &model.Movie{Title: "Heat"}
	require.NoError(t, s.Movies().Create(ctx, movie))

	rating := &model.Rating{MovieID: movie.ID, UserID: user.ID, Score: 7}
	require.NoError(t, s.Ratings().Create(ctx, rating))

	require.NoError(t, s.Ratings().UpdateScore(ctx, rating.ID, 7))
	require.NoError(t, s.Ratings().UpdateScore(ctx, rating.ID, 9))
	updated, err := s.Ratings().FindByID(ctx, rating.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Score)

	byMovie, err := s.Ratings().ListByMovie(ctx, movie.ID)
	require.NoError(t, err)
	assert.Len(t, byMovie, 1)

	require.NoError(t, s.Ratings().Delete(ctx, rating.ID))
	assert.ErrorIs(t, s.Ratings().Delete(ctx, rating.ID), gorm.ErrRecordNotFound)

	all, err := s.Ratings().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRatingRepository_RejectsUnknownReferences(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	err := s.Ratings().Create(ctx, &model.Rating{MovieID: 42, UserID: 42, Score: 5})
	assert.Error(t, err)
}

func TestStore_WithTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	boom := errors.New("boom")

	err := s.WithTransaction(ctx, func(ctx context.Context, tx Store) error {
		if err := tx.Users().Create(ctx, &model.User{Username: "carol", Email: "carol@example.com", PasswordHash: "hash"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.Users().FindByUsername(ctx, "carol")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, s.Ping(ctx))
}
