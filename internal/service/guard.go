package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"movierating/internal/auth"
	apperrors "movierating/internal/errors"
	"movierating/internal/model"
	"movierating/internal/repository"
)

var (
	// ErrUnknownIdentity is returned when a valid token names a user that no longer exists.
	ErrUnknownIdentity = apperrors.New(apperrors.ErrUnauthorized, "token subject no longer exists")
	// ErrAdminRequired is returned when a non-admin calls an admin operation.
	ErrAdminRequired = apperrors.New(apperrors.ErrForbidden, "admin privileges required")
	// ErrAdminNotAllowed is returned when an admin calls a regular-user operation.
	ErrAdminNotAllowed = apperrors.New(apperrors.ErrForbidden, "admins cannot submit ratings")
	// ErrNotOwner is returned when an identity does not own the resource.
	ErrNotOwner = apperrors.New(apperrors.ErrForbidden, "not the owner of this resource")
)

// Guard resolves verified tokens to live users.
type Guard struct {
	store      repository.Store
	tokenStore auth.TokenStoreInterface
}

// NewGuard creates the authorization guard.
func NewGuard(store repository.Store, tokenStore auth.TokenStoreInterface) *Guard {
	return &Guard{store: store, tokenStore: tokenStore}
}

// Resolve maps verified claims to the acting user. Revoked tokens and deleted
// users fail with an unauthorized error and never resolve to an identity.
func (g *Guard) Resolve(ctx context.Context, claims *auth.Claims) (*model.User, error) {
	if claims == nil {
		return nil, auth.ErrInvalidToken
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	revoked, err := g.tokenStore.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if revoked {
		return nil, auth.ErrInvalidToken
	}

	user, err := g.store.Users().FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnknownIdentity
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

// RequireAdmin fails unless the identity is an admin.
func RequireAdmin(identity *model.User) error {
	if identity == nil || !identity.IsAdmin {
		return ErrAdminRequired
	}
	return nil
}

// RequireRegular fails when the identity is an admin.
func RequireRegular(identity *model.User) error {
	if identity == nil {
		return auth.ErrInvalidToken
	}
	if identity.IsAdmin {
		return ErrAdminNotAllowed
	}
	return nil
}

// RequireOwnerOrAdmin succeeds when identity owns the resource, or when
// allowAdminOverride is set and identity is an admin.
func RequireOwnerOrAdmin(identity *model.User, ownerID uint, allowAdminOverride bool) error {
	if identity == nil {
		return auth.ErrInvalidToken
	}
	if identity.ID == ownerID {
		return nil
	}
	if allowAdminOverride && identity.IsAdmin {
		return nil
	}
	return ErrNotOwner
}
