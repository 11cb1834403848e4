// Package migrations embeds the relational backend's schema and runs it via
// golang-migrate, grounded on common/mpostgres/postgres.go's
// migrate.NewWithDatabaseInstance(...).Up() sequence. Unlike the teacher,
// which resolves a migrations directory relative to the working directory,
// this package embeds its SQL so the binary carries its own schema.
package migrations

import (
	"database/sql"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var files embed.FS

// Up applies every pending migration against dsn.
func Up(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		return err
	}

	source, err := iofs.New(files, ".")
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", source, "pgx", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
