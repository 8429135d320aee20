package storage

import (
	"embed"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Migrate applies the embedded goose migrations, bringing the schema up to
// the latest version. It is safe to call on every startup.
func (postgresql *PostgreSQL) Migrate() error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		postgresql.log.Sugar().Errorf("Failed to set goose dialect: %s", err)
		return err
	}

	if err := goose.Up(postgresql.db, "migrations"); err != nil {
		postgresql.log.Sugar().Errorf("Failed to apply migrations: %s", err)
		return err
	}

	return nil
}
