package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitmatrix/habitmatrix/internal/service"
)

const testPassword = "Sup3rSecret!"

func newAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	return service.NewAuthService(setupTestDB(t), "test-secret", false, time.Hour)
}

func TestHashPasswordRoundTrip(t *testing.T) {
	encoded := service.HashPassword(testPassword)

	assert.True(t, service.VerifyPassword(testPassword, encoded))
	assert.False(t, service.VerifyPassword("wrong-password", encoded))

	// Salts are random, so two hashes of the same password differ.
	assert.NotEqual(t, encoded, service.HashPassword(testPassword))
}

func TestVerifyPasswordRejectsMalformedHashes(t *testing.T) {
	assert.False(t, service.VerifyPassword(testPassword, ""))
	assert.False(t, service.VerifyPassword(testPassword, "no-separator"))
	assert.False(t, service.VerifyPassword(testPassword, "not!base64.bm90IGJhc2U2NA=="))
}

func TestRegisterValidation(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "", "someone@example.com", testPassword)
	assert.ErrorIs(t, err, service.ErrUsernameRequired)

	_, err = auth.Register(ctx, "someone", "not-an-email", testPassword)
	assert.ErrorIs(t, err, service.ErrInvalidEmail)

	_, err = auth.Register(ctx, "someone", "someone@example.com", "short")
	assert.ErrorIs(t, err, service.ErrWeakPassword)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "first", "taken@example.com", testPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, testPassword, user.PasswordHash)

	_, err = auth.Register(ctx, "second", "Taken@Example.com", testPassword)
	assert.ErrorIs(t, err, service.ErrEmailAlreadyExists, "email comparison is case insensitive")
}

func TestLogin(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	registered, err := auth.Register(ctx, "logintest", "login@example.com", testPassword)
	require.NoError(t, err)

	user, token, err := auth.Login(ctx, "login@example.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	require.NotEmpty(t, token)

	claims, err := auth.VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID.String(), claims["user_id"])
	assert.Equal(t, "login@example.com", claims["email"])

	_, _, err = auth.Login(ctx, "login@example.com", "wrong-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, _, err = auth.Login(ctx, "nobody@example.com", testPassword)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestVerifyJWTRejectsForeignSignature(t *testing.T) {
	database := setupTestDB(t)
	auth := service.NewAuthService(database, "secret-a", false, time.Hour)
	other := service.NewAuthService(database, "secret-b", false, time.Hour)

	ctx := context.Background()
	user, err := auth.Register(ctx, "jwt", "jwt@example.com", testPassword)
	require.NoError(t, err)

	token, err := auth.GenerateJWT(user)
	require.NoError(t, err)

	_, err = other.VerifyJWT(token)
	assert.Error(t, err)
}
