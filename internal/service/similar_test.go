package service

import (
	"context"
	"errors"
	"testing"

	"travelog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postsWithIDs(ids ...uint) []*models.Post {
	out := make([]*models.Post, 0, len(ids))
	for _, id := range ids {
		out = append(out, &models.Post{ID: id})
	}
	return out
}

func TestSelectSimilar_Pure(t *testing.T) {
	tests := []struct {
		name       string
		sameAuthor []uint
		recent     []uint
		want       []uint
	}{
		{"author posts then recent", []uint{11, 12}, []uint{21, 22, 23, 24}, []uint{11, 12, 21, 22}},
		{"duplicates keep first occurrence", []uint{11, 12}, []uint{12, 21, 11, 22}, []uint{11, 12, 21, 22}},
		{"no author posts", nil, []uint{21, 22, 23, 24}, []uint{21, 22, 23, 24}},
		{"everything short", []uint{11}, []uint{11}, []uint{11}},
		{"empty", nil, nil, []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selectSimilar(postsWithIDs(tt.sameAuthor...), postsWithIDs(tt.recent...))
			assert.Equal(t, tt.want, postIDs(got))
		})
	}
}

func TestSelectSimilar_BackfillsFromRecent(t *testing.T) {
	var recentLimitSeen, authorLimitSeen int
	repo := &postRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 5}, nil
		},
		listByAuthorExcludingFn: func(_ context.Context, authorID, excludeID uint, limit int) ([]*models.Post, error) {
			assert.Equal(t, uint(5), authorID)
			assert.Equal(t, uint(100), excludeID)
			authorLimitSeen = limit
			return postsWithIDs(1, 2), nil
		},
		listRecentExcludingFn: func(_ context.Context, excludeID uint, limit int) ([]*models.Post, error) {
			assert.Equal(t, uint(100), excludeID)
			recentLimitSeen = limit
			return postsWithIDs(31, 32, 33, 34), nil
		},
	}
	svc := NewPostService(repo, nil)

	got, err := svc.SelectSimilar(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 31, 32}, postIDs(got))
	assert.Equal(t, 3, authorLimitSeen)
	assert.Equal(t, 4, recentLimitSeen)
}

func TestSelectSimilar_FullAuthorSetSkipsBackfill(t *testing.T) {
	repo := &postRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 5}, nil
		},
		listByAuthorExcludingFn: func(context.Context, uint, uint, int) ([]*models.Post, error) {
			return postsWithIDs(1, 2, 3), nil
		},
		listRecentExcludingFn: func(context.Context, uint, int) ([]*models.Post, error) {
			t.Fatal("recent posts must not be queried when the author has enough posts")
			return nil, nil
		},
	}

	got, err := NewPostService(repo, nil).SelectSimilar(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, postIDs(got))
}

func TestSelectSimilar_Errors(t *testing.T) {
	t.Run("missing reference post", func(t *testing.T) {
		_, err := NewPostService(noopPostRepo(), nil).SelectSimilar(context.Background(), 9)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("backfill query fails", func(t *testing.T) {
		repo := &postRepoStub{
			getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
				return &models.Post{ID: id, UserID: 5}, nil
			},
			listRecentExcludingFn: func(context.Context, uint, int) ([]*models.Post, error) {
				return nil, models.NewInternalError(errors.New("timeout"))
			},
		}
		got, err := NewPostService(repo, nil).SelectSimilar(context.Background(), 9)
		assertAppErrorCode(t, err, models.CodeInternal)
		assert.Nil(t, got)
	})
}

func postIDs(posts []*models.Post) []uint {
	out := make([]uint, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}
