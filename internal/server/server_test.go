package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"travelog/internal/config"
	"travelog/internal/models"
	"travelog/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret-that-is-long-enough-123456"

type testEnv struct {
	srv *Server
	app *fiber.App
	db  *gorm.DB
	mr  *miniredis.Miniredis
}

type envOption func(*config.Config)

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	return newTestEnvWith(t, false, opts...)
}

func newTestEnvWithRedis(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	return newTestEnvWith(t, true, opts...)
}

func newTestEnvWith(t *testing.T, useRedis bool, opts ...envOption) *testEnv {
	t.Helper()
	cfg := &config.Config{
		Env:                    "test",
		Port:                   "0",
		JWTSecret:              testSecret,
		TokenTTLHours:          1,
		ClientURL:              "http://localhost:3000",
		UploadDir:              t.TempDir(),
		UploadMaxSizeMB:        1,
		RateLimitMax:           0,
		RateLimitWindowMinutes: 15,
		FeatureFlags:           "live_feed=on,post_cache=off,image_resize=on",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	env := &testEnv{db: testutil.NewTestDB(t)}
	var rdb *redis.Client
	if useRedis {
		env.mr = miniredis.RunT(t)
		rdb = redis.NewClient(&redis.Options{Addr: env.mr.Addr()})
	}

	env.srv = NewServerWithDeps(cfg, env.db, rdb)
	env.srv.userService = env.srv.userService.WithHashCost(bcrypt.MinCost)
	env.app = env.srv.App()
	t.Cleanup(func() { env.srv.shutdownFn() })
	return env
}

// do sends a request with an optional JSON body and access token.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(AccessTokenHeader, token)
	}
	return e.send(t, req)
}

func (e *testEnv) send(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

// login creates a user and returns it with a valid access token.
func (e *testEnv) login(t *testing.T, username string) (*models.User, string) {
	t.Helper()
	user := testutil.CreateUser(t, e.db, username)
	token, err := e.srv.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return user, token
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[map[string]any](t, body)
	assert.Equal(t, "OK", got["status"])
	ts, ok := got["timestamp"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)
	uptime, ok := got["uptime"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, uptime, 0.0)
}

func TestLivenessAndReadiness(t *testing.T) {
	env := newTestEnvWithRedis(t)

	resp, _ := env.do(t, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.do(t, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[map[string]any](t, body)
	assert.Equal(t, "up", got["status"])

	env.mr.SetError("LOADING redis is loading")
	resp, body = env.do(t, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	got = decode[map[string]any](t, body)
	assert.Equal(t, "down", got["checks"].(map[string]any)["redis"])
}

func TestReadiness_WithoutRedis(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[map[string]any](t, body)
	assert.Equal(t, "disabled", got["checks"].(map[string]any)["redis"])
}

func TestNotFoundFallback(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Not Found","message":"The requested resource was not found"}`, string(body))
}

func TestGlobalRateLimit(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.RateLimitMax = 2 })

	for i := 0; i < 2; i++ {
		resp, _ := env.do(t, http.MethodGet, "/health", nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, body := env.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Too many requests from this IP, please try again later."}`, string(body))
}

func TestCORSAllowsAccessTokenHeader(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", AccessTokenHeader)
	resp, _ := env.send(t, req)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), AccessTokenHeader)
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)
	user, valid := env.login(t, "alice")

	sign := func(claims jwt.MapClaims, secret string) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return tok
	}
	base := func() jwt.MapClaims {
		return jwt.MapClaims{
			"sub": "1", "iss": tokenIssuer, "aud": tokenAudience,
			"exp": time.Now().Add(time.Hour).Unix(),
		}
	}

	wrongAudience := base()
	wrongAudience["aud"] = "someone-else"
	expired := base()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()
	noExpiry := base()
	delete(noExpiry, "exp")
	badSubject := base()
	badSubject["sub"] = "abc"

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"valid", valid, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", sign(base(), "another-secret"), http.StatusUnauthorized},
		{"wrong audience", sign(wrongAudience, testSecret), http.StatusUnauthorized},
		{"expired", sign(expired, testSecret), http.StatusUnauthorized},
		{"no expiry", sign(noExpiry, testSecret), http.StatusUnauthorized},
		{"bad subject", sign(badSubject, testSecret), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.do(t, http.MethodGet, "/api/users/authCheck", nil, tt.token)
			assert.Equal(t, tt.status, resp.StatusCode, string(body))
			if tt.status == http.StatusOK {
				got := decode[map[string]any](t, body)
				assert.EqualValues(t, user.ID, got["id"])
				assert.Equal(t, "alice", got["username"])
			} else {
				got := decode[models.ErrorResponse](t, body)
				assert.Equal(t, models.CodeUnauthorized, got.Code)
			}
		})
	}
}

func TestFeatureFlags(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.FeatureFlags = "live_feed=off,post_cache=on" })

	resp, body := env.do(t, http.MethodGet, "/api/feature-flags", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[struct {
		Raw       map[string]string `json:"raw"`
		Evaluated map[string]bool   `json:"evaluated"`
	}](t, body)
	assert.Equal(t, "off", got.Raw["live_feed"])
	assert.False(t, got.Evaluated["live_feed"])
	assert.True(t, got.Evaluated["post_cache"])
}

func TestHumanizeParam(t *testing.T) {
	tests := []struct {
		param    string
		expected string
	}{
		{"id", "ID"},
		{"postId", "post ID"},
		{"commentId", "comment ID"},
		{"something", "something"},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			assert.Equal(t, tt.expected, humanizeParam(tt.param))
		})
	}
}

func TestInvalidIDParam(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/posts/byId/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid ID", decode[models.ErrorResponse](t, body).Error)

	_, token := env.login(t, "bob")
	resp, body = env.do(t, http.MethodDelete, "/api/comments/0", nil, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid comment ID", decode[models.ErrorResponse](t, body).Error)
}
