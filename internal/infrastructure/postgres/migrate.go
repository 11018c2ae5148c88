package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/fastygo/smarttask/assets"
	"github.com/fastygo/smarttask/internal/config"
)

const migrationsTable = "smarttask_schema_migrations"

// RunMigrations brings task_snapshots up to date. The schema compiled into
// the binary is used unless MIGRATIONS_PATH points at a directory.
func RunMigrations(cfg *config.Config, logger *zap.Logger) error {
	if cfg == nil || !cfg.Migrations.Enabled {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sqlDB, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return err
	}
	m, source, err := newMigrator(cfg.Migrations.Path, driver)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	version, dirty, _ := m.Version()
	logger.Info("database migrations applied",
		zap.String("source", source),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

func newMigrator(path string, driver database.Driver) (*migrate.Migrate, string, error) {
	if path != "" {
		sourceURL := "file://" + filepath.ToSlash(path)
		m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
		return m, sourceURL, err
	}
	src, err := iofs.New(assets.Migrations, "migrations")
	if err != nil {
		return nil, "", err
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	return m, "embedded", err
}
