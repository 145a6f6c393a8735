package database

import (
	"context"
	"database/sql"
	"fmt"

	"brokerage/internal/config"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

// EnsureDatabase creates cfg.DBName when it does not exist yet, connecting through
// the "postgres" maintenance database. It reports whether the database was created.
func EnsureDatabase(ctx context.Context, cfg *config.Config) (bool, error) {
	maintenance := *cfg
	maintenance.DBName = "postgres"

	conn, err := sql.Open("pgx", DSN(&maintenance))
	if err != nil {
		return false, fmt.Errorf("open maintenance database: %w", err)
	}
	defer conn.Close()

	var exists bool
	if err := conn.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("check database %q: %w", cfg.DBName, err)
	}
	if exists {
		return false, nil
	}

	if _, err := conn.ExecContext(ctx, "CREATE DATABASE "+pgx.Identifier{cfg.DBName}.Sanitize()); err != nil {
		return false, fmt.Errorf("create database %q: %w", cfg.DBName, err)
	}
	return true, nil
}
