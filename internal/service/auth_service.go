package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"movierating/internal/auth"
	apperrors "movierating/internal/errors"
	"movierating/internal/model"
	"movierating/internal/repository"
)

var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	// Both cases share the message so callers cannot tell which field was wrong.
	ErrInvalidCredentials = apperrors.New(apperrors.ErrUnauthorized, "invalid username or password")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = apperrors.New(apperrors.ErrConflict, "username already registered")
	// ErrEmailTaken is returned when registering an existing email.
	ErrEmailTaken = apperrors.New(apperrors.ErrConflict, "email already registered")
	// ErrUserAlreadyExists is returned when the database rejects a duplicate the pre-check missed.
	ErrUserAlreadyExists = apperrors.New(apperrors.ErrConflict, "user already exists")
	// ErrPasswordTooLong is returned for passwords bcrypt cannot hash.
	ErrPasswordTooLong = apperrors.New(apperrors.ErrValidation, "password must be at most 72 bytes")
)

// Token is an issued identity token.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AuthService handles registration and authentication.
type AuthService interface {
	Register(ctx context.Context, username, password, email string, isAdmin bool) (*model.User, error)
	Login(ctx context.Context, username, password string) (*Token, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

type authService struct {
	store      repository.Store
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	bcryptCost int
}

// NewAuthService creates a new authentication service.
func NewAuthService(store repository.Store, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, bcryptCost int) AuthService {
	return &authService{
		store:      store,
		jwtService: jwtService,
		tokenStore: tokenStore,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new user with a hashed password.
func (s *authService) Register(ctx context.Context, username, password, email string, isAdmin bool) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if err := requireFields(field{"username", username}, field{"password", password}, field{"email", email}); err != nil {
		return nil, err
	}

	// Hash outside the transaction; bcrypt is deliberately slow.
	hashedPassword, err := auth.HashPassword(password, s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hashedPassword,
		Email:        email,
		IsAdmin:      isAdmin,
	}

	err = s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Users().FindByUsername(ctx, username); err == nil {
			return ErrUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if _, err := tx.Users().FindByEmail(ctx, email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Users().Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUserAlreadyExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	return user, nil
}

// Login verifies credentials and issues a token valid for one hour.
func (s *authService) Login(ctx context.Context, username, password string) (*Token, error) {
	username = strings.TrimSpace(username)
	if err := requireFields(field{"username", username}, field{"password", password}); err != nil {
		return nil, err
	}

	user, err := s.store.Users().FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, claims, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &Token{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// Logout revokes the token until it would have expired.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return auth.ErrInvalidToken
	}
	if err := s.tokenStore.RevokeToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

type field struct {
	name  string
	value string
}

// requireFields fails with a validation error naming the first empty field.
func requireFields(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return apperrors.New(apperrors.ErrValidation, f.name+" is required")
		}
	}
	return nil
}
