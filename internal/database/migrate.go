// Package database applies the embedded schema migrations.
package database

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/Taichi-iskw/contentrepo/internal/log"
	"github.com/Taichi-iskw/contentrepo/migrations"
)

// Migrator runs migrations from an fs.FS against one database
type Migrator struct {
	m      *migrate.Migrate
	logger logSDK.Logger
}

// Status is the schema version reported by Version
type Status struct {
	Version uint
	Dirty   bool
	// Applied is false on a database that has never been migrated
	Applied bool
}

// NewMigrator opens the embedded migrations against databaseURL (postgres://...)
func NewMigrator(databaseURL string) (*Migrator, error) {
	return NewMigratorFromFS(migrations.FS, ".", databaseURL)
}

// NewMigratorFromFS opens migrations stored under dir of fsys
func NewMigratorFromFS(fsys fs.FS, dir, databaseURL string) (*Migrator, error) {
	source, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, errors.Wrap(err, "open migration source")
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "create migrate instance")
	}

	logger := log.Logger.Named("migrate")
	m.Log = &migrateLogger{logger: logger}
	return &Migrator{m: m, logger: logger}, nil
}

// Up applies every pending migration. An up-to-date schema is not an error.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "run migrations")
	}
	return mg.logVersion("migrated up")
}

// Down reverts the given number of migrations; steps <= 0 reverts all of them
func (mg *Migrator) Down(steps int) error {
	var err error
	if steps > 0 {
		err = mg.m.Steps(-steps)
	} else {
		err = mg.m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "revert migrations")
	}
	return mg.logVersion("migrated down")
}

// Version reports the current schema version
func (mg *Migrator) Version() (Status, error) {
	version, dirty, err := mg.m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return Status{}, nil
		}
		return Status{}, errors.Wrap(err, "read schema version")
	}
	return Status{Version: version, Dirty: dirty, Applied: true}, nil
}

// Close releases the source and the database connection
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil {
		return errors.Wrap(srcErr, "close migration source")
	}
	if dbErr != nil {
		return errors.Wrap(dbErr, "close migration database")
	}
	return nil
}

func (mg *Migrator) logVersion(msg string) error {
	status, err := mg.Version()
	if err != nil {
		return err
	}
	mg.logger.Info(msg, zap.Uint("version", status.Version), zap.Bool("dirty", status.Dirty))
	return nil
}

// migrateLogger adapts the shared logger to migrate.Logger
type migrateLogger struct {
	logger logSDK.Logger
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *migrateLogger) Verbose() bool {
	return false
}
