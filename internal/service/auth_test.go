package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oreshnik/storefront/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	r := newTestRepo(t)
	svc := &AuthService{Repo: r}
	ctx := context.Background()

	user := models.User{Email: "buyer@example.com", FirstName: "Иван"}
	require.NoError(t, svc.Register(ctx, &user, "secret123"))
	require.NotZero(t, user.ID)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	got, err := svc.Login(ctx, "buyer@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Login(ctx, "buyer@example.com", "wrong")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Login(ctx, "nobody@example.com", "secret123")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegister_Validation(t *testing.T) {
	r := newTestRepo(t)
	svc := &AuthService{Repo: r}
	ctx := context.Background()

	require.ErrorIs(t, svc.Register(ctx, &models.User{}, "secret123"), ErrValidation)
	require.ErrorIs(t, svc.Register(ctx, &models.User{Email: "a@b.c"}, ""), ErrValidation)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	r := newTestRepo(t)
	svc := &AuthService{Repo: r}
	ctx := context.Background()

	first := models.User{Email: "buyer@example.com"}
	require.NoError(t, svc.Register(ctx, &first, "secret123"))

	dup := models.User{Email: "buyer@example.com"}
	require.ErrorIs(t, svc.Register(ctx, &dup, "another"), ErrConflict)
}

func TestProfile(t *testing.T) {
	r := newTestRepo(t)
	svc := &AuthService{Repo: r}
	ctx := context.Background()

	user := seedUser(t, r, "buyer@example.com")

	got, err := svc.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", got.Email)

	_, err = svc.Profile(ctx, 9999)
	require.ErrorIs(t, err, ErrNotFound)
}
