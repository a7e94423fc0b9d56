package repository

import (
	"context"
	"testing"

	"travelog/internal/models"
	"travelog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	user := &models.User{Username: "marco_polo", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)

	err := repo.Create(ctx, &models.User{Username: "marco_polo", Password: "other"})
	assert.True(t, models.HasCode(err, models.CodeConflict))

	got, err := repo.GetByUsername(ctx, "marco_polo")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)

	missing, err := repo.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "marco_polo", byID.Username)

	_, err = repo.GetByID(ctx, 999)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
