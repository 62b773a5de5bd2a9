package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/pratty2304/MedConnect/internal/config"
)

// RunMigrations applies pending SQL migrations from the migrations
// directory (overridable via MIGRATIONS_PATH).
func RunMigrations(cfg *config.DatabaseConfig, log *zap.Logger) error {
	path := os.Getenv("MIGRATIONS_PATH")
	if path == "" {
		path = "migrations"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve migrations path: %w", err)
	}

	sourceURL := fmt.Sprintf("file://%s", filepath.ToSlash(absPath))

	m, err := migrate.New(sourceURL, cfg.GetURL())
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("database schema up to date", zap.String("source", absPath))
			return nil
		}
		return fmt.Errorf("run migrate: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	log.Info("database migrations applied",
		zap.String("source", absPath),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}
