package database

import (
	"context"
	"fmt"
	"log/slog"

	"travelog/internal/middleware"

	"github.com/pressly/goose"
	"gorm.io/gorm"
)

// goose keeps its own version table and a package-level dialect.
func gooseDialect(db *gorm.DB) string {
	if db.Dialector.Name() == "sqlite" {
		return "sqlite3"
	}
	return "postgres"
}

func prepareGoose(db *gorm.DB) error {
	if err := goose.SetDialect(gooseDialect(db)); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	return nil
}

// RunMigrations applies every pending SQL migration found in dir.
func RunMigrations(ctx context.Context, db *gorm.DB, dir string) error {
	if err := prepareGoose(db); err != nil {
		return err
	}
	sqlDB, err := db.WithContext(ctx).DB()
	if err != nil {
		return fmt.Errorf("get sql handle: %w", err)
	}

	middleware.Logger.Info("Applying SQL migrations", slog.String("dir", dir))
	if err := goose.Up(sqlDB, dir); err != nil {
		return fmt.Errorf("sql migrations failed: %w", err)
	}
	return nil
}

// RollbackMigration reverts the most recently applied migration.
func RollbackMigration(ctx context.Context, db *gorm.DB, dir string) error {
	if err := prepareGoose(db); err != nil {
		return err
	}
	sqlDB, err := db.WithContext(ctx).DB()
	if err != nil {
		return fmt.Errorf("get sql handle: %w", err)
	}
	if err := goose.Down(sqlDB, dir); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	return nil
}

// MigrationStatus prints applied and pending migrations and returns the current version.
func MigrationStatus(ctx context.Context, db *gorm.DB, dir string) (int64, error) {
	if err := prepareGoose(db); err != nil {
		return 0, err
	}
	sqlDB, err := db.WithContext(ctx).DB()
	if err != nil {
		return 0, fmt.Errorf("get sql handle: %w", err)
	}
	if err := goose.Status(sqlDB, dir); err != nil {
		return 0, fmt.Errorf("migration status failed: %w", err)
	}
	version, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return 0, fmt.Errorf("read migration version: %w", err)
	}
	return version, nil
}
