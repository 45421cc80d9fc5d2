package repository

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations runs database migrations
func RunMigrations(databaseURL string) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		// Handle dirty database state by forcing to the previous clean version
		var dirtyErr migrate.ErrDirty
		if errors.As(err, &dirtyErr) {
			forceVersion := cleanVersionBefore(dirtyErr.Version)

			if ferr := m.Force(forceVersion); ferr != nil {
				return fmt.Errorf("force clean migration version %d: %w", forceVersion, ferr)
			}

			if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("rerun migrations after dirty state: %w", err)
			}

			return nil
		}

		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// cleanVersionBefore is the version to force when migration dirty failed.
// Failing the first migration leaves no version at all.
func cleanVersionBefore(dirty int) int {
	if dirty <= 1 {
		return database.NilVersion
	}
	return dirty - 1
}
