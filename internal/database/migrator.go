package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const defaultMigrationsPath = "db/migrations"

var (
	readinessRetries  = 30
	readinessInterval = 2 * time.Second
)

// MigrationRunner applies the SQL migrations under db/migrations (rules,
// budget categories, detection tables) against a live connection.
type MigrationRunner struct {
	db   *sql.DB
	path string
}

// NewMigrationRunner creates a runner over the given connection. The
// migrations directory can be overridden with MIGRATIONS_PATH.
func NewMigrationRunner(db *sql.DB) *MigrationRunner {
	path := os.Getenv("MIGRATIONS_PATH")
	if path == "" {
		path = defaultMigrationsPath
	}
	return &MigrationRunner{db: db, path: path}
}

// WaitForDatabase blocks until the database answers pings or the retry
// budget is exhausted.
func (mr *MigrationRunner) WaitForDatabase() error {
	for i := 0; i < readinessRetries; i++ {
		if err := mr.db.Ping(); err == nil {
			return nil
		} else {
			log.Printf("Database not ready (attempt %d/%d): %v", i+1, readinessRetries, err)
		}
		time.Sleep(readinessInterval)
	}
	return fmt.Errorf("database not ready after %d attempts", readinessRetries)
}

// RunMigrations applies all pending migrations. A missing migrations
// directory is not an error so container images without the SQL files can
// still boot on GORM AutoMigrate.
func (mr *MigrationRunner) RunMigrations() error {
	if _, err := os.Stat(mr.path); os.IsNotExist(err) {
		log.Printf("Migrations directory not found at %s, skipping", mr.path)
		return nil
	}

	m, err := mr.newMigrate()
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	if dirty {
		log.Printf("Database dirty at version %d, forcing version", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
	}

	err = m.Up()
	switch {
	case err == migrate.ErrNoChange:
		log.Println("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("migration failed: %w", err)
	default:
		newVersion, _, verr := m.Version()
		if verr != nil {
			return fmt.Errorf("failed to get new migration version: %w", verr)
		}
		log.Printf("Applied migrations, now at version %d", newVersion)
	}
	return nil
}

// Status returns the current migration version and dirty flag.
func (mr *MigrationRunner) Status() (version uint, dirty bool, err error) {
	m, err := mr.newMigrate()
	if err != nil {
		return 0, false, err
	}
	return m.Version()
}

func (mr *MigrationRunner) newMigrate() (*migrate.Migrate, error) {
	absPath, err := filepath.Abs(mr.path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve migrations path: %w", err)
	}

	driver, err := postgres.WithInstance(mr.db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", absPath), "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}

// RunMigrationsIfEnabled runs the SQL migrations when AUTO_MIGRATE=true.
// Initialize falls back to GORM AutoMigrate when this returns an error.
func RunMigrationsIfEnabled(db *sql.DB) error {
	if os.Getenv("AUTO_MIGRATE") != "true" {
		log.Println("Auto-migration disabled (AUTO_MIGRATE != true)")
		return nil
	}

	runner := NewMigrationRunner(db)
	if err := runner.WaitForDatabase(); err != nil {
		return fmt.Errorf("database readiness check failed: %w", err)
	}
	if err := runner.RunMigrations(); err != nil {
		return fmt.Errorf("migration execution failed: %w", err)
	}

	if version, dirty, err := runner.Status(); err != nil {
		log.Printf("Warning: failed to get migration status: %v", err)
	} else {
		log.Printf("Migration status - version: %d, dirty: %v", version, dirty)
	}
	return nil
}
