package database

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"travelog/internal/config"
	"travelog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDialector(t *testing.T) {
	assert.Equal(t, "sqlite", Dialector(&config.Config{DBDriver: "sqlite", DBSQLitePath: ":memory:"}).Name())
	assert.Equal(t, "postgres", Dialector(&config.Config{DBDriver: "postgres"}).Name())
	assert.Equal(t, "postgres", Dialector(&config.Config{}).Name())
}

func TestConnect_SQLiteAutoMigrates(t *testing.T) {
	cfg := &config.Config{Env: "test", DBDriver: "sqlite", DBSQLitePath: ":memory:"}
	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { DB = nil })

	for _, m := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(m))
	}
	assert.True(t, db.Migrator().HasIndex(&models.Like{}, "idx_likes_post_user"))
}

func TestOpen_TranslatesDuplicateKey(t *testing.T) {
	db, err := Open(Dialector(&config.Config{DBDriver: "sqlite", DBSQLitePath: ":memory:"}))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	require.NoError(t, db.Create(&models.User{Username: "ana", Password: "x"}).Error)
	err = db.Create(&models.User{Username: "ana", Password: "y"}).Error
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestRunMigrations_SQLite(t *testing.T) {
	db, err := Open(Dialector(&config.Config{DBDriver: "sqlite", DBSQLitePath: t.TempDir() + "/m.db"}))
	require.NoError(t, err)

	require.NoError(t, RunMigrations(context.Background(), db, "testdata/migrations"))
	assert.True(t, db.Migrator().HasTable("posts"))

	version, err := MigrationStatus(context.Background(), db, "testdata/migrations")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

type captureHandler struct {
	msgs []string
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.msgs = append(h.msgs, r.Message)
	return nil
}
func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func TestGormLogger_Trace(t *testing.T) {
	h := &captureHandler{}
	l := NewGormLogger(slog.New(h))
	ctx := context.Background()
	sql := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(ctx, time.Now(), sql, nil)
	assert.Empty(t, h.msgs)

	l.Trace(ctx, time.Now(), sql, gorm.ErrRecordNotFound)
	assert.Empty(t, h.msgs)

	l.Trace(ctx, time.Now(), sql, errors.New("syntax error"))
	l.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
	assert.Equal(t, []string{"GORM query error", "GORM slow query"}, h.msgs)

	l.LogMode(logger.Silent).Trace(ctx, time.Now(), sql, errors.New("ignored"))
	assert.Len(t, h.msgs, 2)
	assert.True(t, strings.HasPrefix(h.msgs[0], "GORM"))
}
