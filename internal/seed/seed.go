// Package seed loads an initial admin account and movie catalog.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"movierating/internal/model"
	"movierating/internal/repository"
	"movierating/internal/service"
)

// Catalog is the YAML seed document.
type Catalog struct {
	Admin  Admin   `yaml:"admin"`
	Movies []Movie `yaml:"movies"`
}

// Admin describes the account that owns the seeded catalog.
type Admin struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Movie is one catalog entry.
type Movie struct {
	Title       string `yaml:"title"`
	ReleaseYear int    `yaml:"release_year"`
}

// Result counts what a run changed.
type Result struct {
	AdminCreated  bool
	MoviesCreated int
	MoviesSkipped int
}

// LoadCatalog reads a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if c.Admin.Username == "" {
		return nil, errors.New("catalog admin.username is required")
	}
	return &c, nil
}

// Seeder applies a catalog. Running it twice changes nothing the second time.
type Seeder struct {
	store  repository.Store
	auth   service.AuthService
	movies service.MovieService
	logger *zap.Logger
}

// New creates a seeder.
func New(store repository.Store, auth service.AuthService, movies service.MovieService, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{store: store, auth: auth, movies: movies, logger: logger}
}

// Apply ensures the admin exists and adds every movie whose exact title is missing.
func (s *Seeder) Apply(ctx context.Context, c *Catalog) (Result, error) {
	var res Result

	admin, created, err := s.ensureAdmin(ctx, c.Admin)
	if err != nil {
		return res, err
	}
	res.AdminCreated = created

	for _, m := range c.Movies {
		_, err := s.store.Movies().FindByTitle(ctx, m.Title)
		if err == nil {
			res.MoviesSkipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return res, fmt.Errorf("look up movie %q: %w", m.Title, err)
		}

		year := m.ReleaseYear
		if _, err := s.movies.AddMovie(ctx, admin, m.Title, &year); err != nil {
			return res, fmt.Errorf("add movie %q: %w", m.Title, err)
		}
		s.logger.Info("movie added", zap.String("title", m.Title), zap.Int("release_year", year))
		res.MoviesCreated++
	}

	return res, nil
}

func (s *Seeder) ensureAdmin(ctx context.Context, a Admin) (*model.User, bool, error) {
	existing, err := s.store.Users().FindByUsername(ctx, a.Username)
	if err == nil {
		if !existing.IsAdmin {
			return nil, false, fmt.Errorf("user %q exists but is not an admin", a.Username)
		}
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("look up admin: %w", err)
	}

	user, err := s.auth.Register(ctx, a.Username, a.Password, a.Email, true)
	if err != nil {
		return nil, false, fmt.Errorf("register admin: %w", err)
	}
	s.logger.Info("admin created", zap.String("username", user.Username))
	return user, true, nil
}
