package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator applies schema migrations from a file source to postgres
type Migrator struct {
	m   *migrate.Migrate
	log *zap.Logger
}

// New creates a Migrator reusing an open database connection
func New(db *sql.DB, migrationsPath string, log *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migrate instance: %w", err)
	}
	return &Migrator{m: m, log: log}, nil
}

// Up applies every pending migration
func (mg *Migrator) Up() error {
	applied, err := mg.run(mg.m.Up())
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	if applied {
		mg.logVersion("migrations applied")
	}
	return nil
}

// Down rolls back every applied migration
func (mg *Migrator) Down() error {
	applied, err := mg.run(mg.m.Down())
	if err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	if applied {
		mg.log.Info("all migrations rolled back")
	}
	return nil
}

// Steps applies n migrations; negative n rolls back
func (mg *Migrator) Steps(n int) error {
	applied, err := mg.run(mg.m.Steps(n))
	if err != nil {
		return fmt.Errorf("migrate %d steps: %w", n, err)
	}
	if applied {
		mg.logVersion("migration steps applied")
	}
	return nil
}

// GoTo migrates up or down to the given version
func (mg *Migrator) GoTo(version uint) error {
	applied, err := mg.run(mg.m.Migrate(version))
	if err != nil {
		return fmt.Errorf("migrate to version %d: %w", version, err)
	}
	if applied {
		mg.logVersion("migrated to version")
	}
	return nil
}

// run maps ErrNoChange to a no-op instead of a failure
func (mg *Migrator) run(err error) (bool, error) {
	if errors.Is(err, migrate.ErrNoChange) {
		mg.log.Info("schema already up to date")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (mg *Migrator) logVersion(msg string) {
	version, dirty, err := mg.m.Version()
	if err != nil {
		mg.log.Warn("could not read migration version", zap.Error(err))
		return
	}
	mg.log.Info(msg, zap.Uint("version", version), zap.Bool("dirty", dirty))
}

// Version reports the current schema version; a virgin database reports 0
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migration version: %w", err)
	}
	return version, dirty, nil
}

// Force overwrites the recorded version to recover from a dirty state
func (mg *Migrator) Force(version int) error {
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	mg.log.Warn("migration version forced", zap.Int("version", version))
	return nil
}

// Drop removes every object in the database
func (mg *Migrator) Drop() error {
	if err := mg.m.Drop(); err != nil {
		return fmt.Errorf("drop database: %w", err)
	}
	mg.log.Warn("database dropped")
	return nil
}

// Close releases the source and the database handle
func (mg *Migrator) Close() error {
	sourceErr, dbErr := mg.m.Close()
	if sourceErr != nil {
		return fmt.Errorf("close source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close database: %w", dbErr)
	}
	return nil
}
