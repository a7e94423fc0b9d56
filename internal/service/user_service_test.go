package service

import (
	"context"
	"testing"

	"travelog/internal/models"
	"travelog/internal/repository"
	"travelog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	return NewUserService(repository.NewUserRepository(testutil.NewTestDB(t))).WithHashCost(bcrypt.MinCost)
}

func TestRegister(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Username: "  ibn-battuta ", Password: "tangier"})
	require.NoError(t, err)
	assert.Equal(t, "ibn-battuta", user.Username)
	assert.NotEqual(t, "tangier", user.Password)

	_, err = svc.Register(ctx, RegisterInput{Username: "ibn-battuta", Password: "other"})
	assertAppErrorCode(t, err, models.CodeConflict)

	_, err = svc.Register(ctx, RegisterInput{Username: "ab", Password: "longenough"})
	assertValidationError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "validname", Password: "abc"})
	assertValidationError(t, err)
}

func TestAuthenticate(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Username: "freya", Password: "stark1"})
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "freya", "stark1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = svc.Authenticate(ctx, "freya", "wrong")
	assertAppErrorCode(t, err, models.CodeUnauthorized)

	_, err = svc.Authenticate(ctx, "nobody", "stark1")
	assertAppErrorCode(t, err, models.CodeUnauthorized)

	got, err := svc.GetUserByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "freya", got.Username)
}
