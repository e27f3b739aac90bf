package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dtroode/authcore/database"
)

// Querier is the subset of pgx shared by pools and transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is a Querier that can open transactions.
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Connection is a migrated pgx connection pool.
type Connection struct {
	*pgxpool.Pool
}

// NewConnection opens a pool for dsn and applies pending migrations.
func NewConnection(ctx context.Context, dsn string, maxConns int32) (*Connection, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}
	if maxConns > 0 {
		conf.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	if err := database.Migrate(ctx, dsn); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Connection{
		Pool: pool,
	}, nil
}

func (s *Connection) Close() error {
	if s.Pool != nil {
		s.Pool.Close()
	}
	return nil
}

func (s *Connection) Ping(ctx context.Context) error {
	if s.Pool == nil {
		return fmt.Errorf("connection pool is nil")
	}
	return s.Pool.Ping(ctx)
}
