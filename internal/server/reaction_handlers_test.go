package server

import (
	"net/http"
	"testing"
	"time"

	"travelog/internal/models"
	"travelog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLike(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.login(t, "pat")
	post := testutil.CreatePost(t, env.db, user, "liked", time.Now())
	body := map[string]any{"PostId": post.ID}

	resp, data := env.do(t, http.MethodPost, "/api/likes", body, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.JSONEq(t, `{"liked":true}`, string(data))

	var n int64
	require.NoError(t, env.db.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", post.ID, user.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	resp, data = env.do(t, http.MethodPost, "/api/likes", body, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"liked":false}`, string(data))

	require.NoError(t, env.db.Model(&models.Like{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestLikeAndDislikeAreIndependent(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.login(t, "quinn")
	post := testutil.CreatePost(t, env.db, user, "mixed", time.Now())
	body := map[string]any{"PostId": post.ID}

	_, data := env.do(t, http.MethodPost, "/api/likes", body, token)
	assert.JSONEq(t, `{"liked":true}`, string(data))
	_, data = env.do(t, http.MethodPost, "/api/dislikes", body, token)
	assert.JSONEq(t, `{"disliked":true}`, string(data))

	resp, data := env.do(t, http.MethodGet, "/api/posts/byId/"+itoa(post.ID), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[models.Post](t, data)
	assert.Len(t, got.Likes, 1)
	assert.Len(t, got.Dislikes, 1)
}

func TestToggleReaction_Errors(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.login(t, "rita")

	tests := []struct {
		name   string
		path   string
		body   map[string]any
		token  string
		status int
	}{
		{"unknown post", "/api/likes", map[string]any{"PostId": 9999}, token, http.StatusNotFound},
		{"missing post id", "/api/dislikes", map[string]any{}, token, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := env.do(t, http.MethodPost, tt.path, tt.body, tt.token)
			assert.Equal(t, tt.status, resp.StatusCode, string(data))
		})
	}
}

func TestToggleReaction_NotLoggedInCreatesNothing(t *testing.T) {
	env := newTestEnv(t)
	author := testutil.CreateUser(t, env.db, "xena")
	post := testutil.CreatePost(t, env.db, author, "untouched", time.Now())

	for _, path := range []string{"/api/likes", "/api/dislikes"} {
		resp, data := env.do(t, http.MethodPost, path, map[string]any{"PostId": post.ID}, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, string(data))
	}

	var likes, dislikes int64
	require.NoError(t, env.db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likes).Error)
	require.NoError(t, env.db.Model(&models.Dislike{}).Where("post_id = ?", post.ID).Count(&dislikes).Error)
	assert.Zero(t, likes)
	assert.Zero(t, dislikes)
}

func TestToggleReaction_AcceptsStringPostID(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.login(t, "yuri")
	post := testutil.CreatePost(t, env.db, user, "from the browser", time.Now())

	resp, data := env.do(t, http.MethodPost, "/api/likes", map[string]any{"PostId": itoa(post.ID)}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.JSONEq(t, `{"liked":true}`, string(data))

	resp, _ = env.do(t, http.MethodPost, "/api/likes", map[string]any{"PostId": "abc"}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
