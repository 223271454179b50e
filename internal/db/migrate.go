// Package db owns the schema and the change feed of the graph database.
//
// Migrations are goose SQL files embedded from internal/db/migrations and are
// applied on startup by RunMigrations.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

// ConnStringer is satisfied by *dbpool.Pool.
type ConnStringer interface {
	ConnString() string
}

// RunMigrations applies all pending migrations from fsys.
func RunMigrations(ctx context.Context, pool ConnStringer, log *logrus.Logger, fsys fs.FS) error {
	// goose needs a *sql.DB, so open one over the same DSN via the pgx stdlib driver.
	sqlDB, err := sql.Open("pgx", pool.ConnString())
	if err != nil {
		return fmt.Errorf("opening sql.DB for migrations: %w", err)
	}
	defer sqlDB.Close() //nolint:errcheck // migration handle only.

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, fsys)
	if err != nil {
		return fmt.Errorf("creating goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	for _, r := range results {
		if r.Error != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", r.Source.Version, r.Source.Path, r.Error)
		}

		log.WithFields(logrus.Fields{
			"version":  r.Source.Version,
			"file":     r.Source.Path,
			"duration": r.Duration,
		}).Info("migration applied")
	}

	if len(results) == 0 {
		log.Debug("all migrations already applied")
	}

	return nil
}
