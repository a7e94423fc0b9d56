package service

import (
	"context"
	"errors"
	"testing"

	"travelog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postRepoStub struct {
	createFn                func(context.Context, *models.Post) error
	getByIDFn               func(context.Context, uint) (*models.Post, error)
	existsFn                func(context.Context, uint) (bool, error)
	listFn                  func(context.Context) ([]*models.Post, error)
	listByUserFn            func(context.Context, uint) ([]*models.Post, error)
	listByAuthorExcludingFn func(context.Context, uint, uint, int) ([]*models.Post, error)
	listRecentExcludingFn   func(context.Context, uint, int) ([]*models.Post, error)
	updateFn                func(context.Context, *models.Post) error
	deleteFn                func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	if s.createFn != nil {
		return s.createFn(ctx, post)
	}
	return nil
}

func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, models.NewNotFoundError("Post", id)
}

func (s *postRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	if s.existsFn != nil {
		return s.existsFn(ctx, id)
	}
	return true, nil
}

func (s *postRepoStub) List(ctx context.Context) ([]*models.Post, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

func (s *postRepoStub) ListByUser(ctx context.Context, userID uint) ([]*models.Post, error) {
	if s.listByUserFn != nil {
		return s.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (s *postRepoStub) ListByAuthorExcluding(ctx context.Context, authorID, excludeID uint, limit int) ([]*models.Post, error) {
	if s.listByAuthorExcludingFn != nil {
		return s.listByAuthorExcludingFn(ctx, authorID, excludeID, limit)
	}
	return nil, nil
}

func (s *postRepoStub) ListRecentExcluding(ctx context.Context, excludeID uint, limit int) ([]*models.Post, error) {
	if s.listRecentExcludingFn != nil {
		return s.listRecentExcludingFn(ctx, excludeID, limit)
	}
	return nil, nil
}

func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, post)
	}
	return nil
}

func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{}
}

// ownedPostRepo serves a single post authored by ownerID.
func ownedPostRepo(postID, ownerID uint) *postRepoStub {
	return &postRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			if id != postID {
				return nil, models.NewNotFoundError("Post", id)
			}
			return &models.Post{ID: postID, UserID: ownerID, Title: "Original", PostText: "<p>original</p>"}, nil
		},
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeForbidden)
}
