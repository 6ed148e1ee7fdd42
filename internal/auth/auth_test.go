package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movierating/internal/cache"
	apperrors "movierating/internal/errors"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestJWTService_Expiry(t *testing.T) {
	issuedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewJWTService("test-secret").WithClock(fixedClock(issuedAt))

	token, claims, err := svc.GenerateToken(42)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, issuedAt.Add(time.Hour).Equal(claims.ExpiresAt.Time))

	tests := []struct {
		name  string
		at    time.Time
		valid bool
	}{
		{"at issuance", issuedAt, true},
		{"half way", issuedAt.Add(30 * time.Minute), true},
		{"last second", issuedAt.Add(time.Hour - time.Second), true},
		{"exactly one hour", issuedAt.Add(time.Hour), true},
		{"just past one hour", issuedAt.Add(time.Hour + time.Nanosecond), false},
		{"after expiry", issuedAt.Add(time.Hour + time.Second), false},
		{"a day later", issuedAt.Add(24 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc.WithClock(fixedClock(tt.at))
			got, err := svc.ValidateToken(token)
			if !tt.valid {
				assert.ErrorIs(t, err, ErrInvalidToken)
				assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			id, err := got.UserID()
			require.NoError(t, err)
			assert.Equal(t, uint(42), id)
		})
	}
}

func TestJWTService_FractionalIssuance(t *testing.T) {
	clock := time.Date(2024, 5, 1, 12, 0, 0, 700_000_000, time.UTC)
	issuedAt := clock.Truncate(time.Second)
	svc := NewJWTService("test-secret").WithClock(fixedClock(clock))

	token, claims, err := svc.GenerateToken(42)
	require.NoError(t, err)
	assert.True(t, issuedAt.Equal(claims.IssuedAt.Time))
	assert.True(t, issuedAt.Add(TokenExpiry).Equal(claims.ExpiresAt.Time))
	assert.Equal(t, TokenExpiry, claims.ExpiresAt.Sub(claims.IssuedAt.Time))

	tests := []struct {
		name  string
		at    time.Time
		valid bool
	}{
		{"within the issuing second", clock, true},
		{"half a second before expiry", issuedAt.Add(TokenExpiry - 500*time.Millisecond), true},
		{"exactly one hour", issuedAt.Add(TokenExpiry), true},
		{"half a second after expiry", issuedAt.Add(TokenExpiry + 500*time.Millisecond), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc.WithClock(fixedClock(tt.at))
			_, err := svc.ValidateToken(token)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidToken)
			}
		})
	}
}

func TestJWTService_RejectsNotYetValid(t *testing.T) {
	issuedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewJWTService("test-secret").WithClock(fixedClock(issuedAt))
	token, _, err := svc.GenerateToken(1)
	require.NoError(t, err)

	svc.WithClock(fixedClock(issuedAt.Add(-time.Second)))
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsTampering(t *testing.T) {
	svc := NewJWTService("test-secret")
	token, _, err := svc.GenerateToken(7)
	require.NoError(t, err)

	other := NewJWTService("other-secret")
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forged, _, err := NewJWTService("test-secret").GenerateToken(8)
	require.NoError(t, err)
	forgedParts := strings.Split(forged, ".")
	spliced := parts[0] + "." + forgedParts[1] + "." + parts[2]
	_, err = svc.ValidateToken(spliced)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsMissingClaims(t *testing.T) {
	svc := NewJWTService("test-secret")

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:      "abc",
		Subject: "1",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(noExpiry)
	assert.ErrorIs(t, err, ErrInvalidToken)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        "abc",
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(badSubject)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		ID:        "abc",
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, CheckPassword("s3cret-pass", hash))
	assert.False(t, CheckPassword("wrong", hash))

	again, err := HashPassword("s3cret-pass", 4)
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salt must differ per hash")
}

func TestTokenStore(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0, nil)
	defer c.Close()
	store := NewTokenStore(c)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.RevokeToken(ctx, "tok-1", time.Minute))
	revoked, err = store.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, _ = store.IsRevoked(ctx, "tok-1")
	assert.False(t, revoked)

	require.NoError(t, store.RevokeToken(ctx, "tok-2", 0))
	revoked, _ = store.IsRevoked(ctx, "tok-2")
	assert.False(t, revoked)
}
