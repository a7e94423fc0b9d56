package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"travelog/internal/config"
	"travelog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Env:          "development",
		DBDriver:     "sqlite",
		DBSQLitePath: filepath.Join(t.TempDir(), "travelog.db"),
		// nothing listens here; Redis stays disabled
		RedisURL: "127.0.0.1:1",
	}
}

func TestInitRuntime_SeedsEmptyDevelopmentDatabase(t *testing.T) {
	rt, err := InitRuntime(testConfig(t), Options{SeedDemoData: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := rt.DB.DB()
		_ = sqlDB.Close()
	})

	assert.Nil(t, rt.Redis)
	assert.NoError(t, rt.ShutdownTracing(context.Background()))

	var users int64
	require.NoError(t, rt.DB.Model(&models.User{}).Count(&users).Error)
	assert.EqualValues(t, 10, users)
}

func TestInitRuntime_NoSeedByDefault(t *testing.T) {
	rt, err := InitRuntime(testConfig(t), Options{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := rt.DB.DB()
		_ = sqlDB.Close()
	})

	var posts int64
	require.NoError(t, rt.DB.Model(&models.Post{}).Count(&posts).Error)
	assert.Zero(t, posts)
}
