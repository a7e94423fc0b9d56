package repository

import (
	"context"
	"testing"
	"time"

	"travelog/internal/models"
	"travelog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	ana := testutil.CreateUser(t, db, "ana")

	post := &models.Post{Title: "Kyoto", PostText: "<p>temples</p>", Username: ana.Username, UserID: ana.ID}
	require.NoError(t, repo.Create(ctx, post))
	assert.NotZero(t, post.ID)
	assert.NotNil(t, post.Likes)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kyoto", got.Title)
	assert.Equal(t, []models.Like{}, got.Likes)
	assert.Equal(t, []models.Dislike{}, got.Dislikes)
}

func TestPostRepository_GetByIDNotFound(t *testing.T) {
	repo := NewPostRepository(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), 999)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestPostRepository_ListOrdering(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	ana := testutil.CreateUser(t, db, "ana")
	bo := testutil.CreateUser(t, db, "bo")

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	old := testutil.CreatePost(t, db, ana, "old", base)
	mid := testutil.CreatePost(t, db, bo, "mid", base.Add(time.Hour))
	tie := testutil.CreatePost(t, db, ana, "tie", base.Add(time.Hour))
	newest := testutil.CreatePost(t, db, ana, "newest", base.Add(2*time.Hour))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []uint{newest.ID, tie.ID, mid.ID, old.ID}, ids(all))

	byAna, err := repo.ListByUser(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{newest.ID, tie.ID, old.ID}, ids(byAna))

	sameAuthor, err := repo.ListByAuthorExcluding(ctx, ana.ID, newest.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint{tie.ID, old.ID}, ids(sameAuthor))

	recent, err := repo.ListRecentExcluding(ctx, tie.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint{newest.ID, mid.ID}, ids(recent))
}

func TestPostRepository_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	ana := testutil.CreateUser(t, db, "ana")
	post := testutil.CreatePost(t, db, ana, "draft", time.Now())

	img := "/uploads/1-abcdef12.png"
	post.Title = "final"
	post.ImageURL = &img
	require.NoError(t, repo.Update(ctx, post))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Title)
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, img, *got.ImageURL)

	err = repo.Update(ctx, &models.Post{ID: 404, Title: "x", PostText: "y"})
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestPostRepository_DeleteRemovesChildren(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	ana := testutil.CreateUser(t, db, "ana")
	post := testutil.CreatePost(t, db, ana, "gone", time.Now())
	keep := testutil.CreatePost(t, db, ana, "kept", time.Now())

	require.NoError(t, db.Create(&models.Comment{CommentBody: "nice", Username: "ana", UserID: ana.ID, PostID: post.ID}).Error)
	require.NoError(t, db.Create(&models.Like{PostID: post.ID, UserID: ana.ID}).Error)
	require.NoError(t, db.Create(&models.Dislike{PostID: post.ID, UserID: ana.ID}).Error)
	require.NoError(t, db.Create(&models.Like{PostID: keep.ID, UserID: ana.ID}).Error)

	require.NoError(t, repo.Delete(ctx, post.ID))

	var n int64
	db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&n)
	assert.Zero(t, n)
	db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&n)
	assert.Zero(t, n)
	db.Model(&models.Dislike{}).Where("post_id = ?", post.ID).Count(&n)
	assert.Zero(t, n)
	db.Model(&models.Like{}).Where("post_id = ?", keep.ID).Count(&n)
	assert.Equal(t, int64(1), n)

	exists, err := repo.Exists(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	err = repo.Delete(ctx, post.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func ids(posts []*models.Post) []uint {
	out := make([]uint, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}
