// Package database owns the SQL schema and applies it with goose.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Seams for tests.
var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}
)

// Migrate applies every pending migration to the database at dsn.
func Migrate(ctx context.Context, dsn string) error {
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return Up(ctx, db)
}

// Up applies pending migrations using an open connection.
func Up(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
