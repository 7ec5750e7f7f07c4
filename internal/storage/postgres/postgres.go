package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/MikhailRaia/shortify/internal/storage"
)

const tableName = "shortify_kv"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Storage implements Store in a single PostgreSQL table.
type Storage struct {
	pool *pgxpool.Pool
}

// NewStorage connects to the database and makes sure the table exists.
func NewStorage(ctx context.Context, dsn string) (*Storage, error) {
	if dsn == "" {
		return nil, errors.New("database connection string is empty")
	}

	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{pool: pool}

	if err := s.createTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *Storage) createTable(ctx context.Context) error {
	createTableQuery := `
		CREATE TABLE IF NOT EXISTS ` + tableName + ` (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`

	if _, err := s.pool.Exec(ctx, createTableQuery); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	return nil
}

// withTable runs op and, if the table vanished underneath us, recreates it
// and runs op once more.
func (s *Storage) withTable(ctx context.Context, op func() error) error {
	err := op()
	if !isUndefinedTable(err) {
		return err
	}

	if err := s.createTable(ctx); err != nil {
		return err
	}

	return op()
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable
}

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, storage.ErrEmptyKey
	}

	query, args, err := psql.Select("value").From(tableName).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return "", false, fmt.Errorf("failed to build query: %w", err)
	}

	var value string
	found := true
	err = s.withTable(ctx, func() error {
		scanErr := s.pool.QueryRow(ctx, query, args...).Scan(&value)
		if errors.Is(scanErr, pgx.ErrNoRows) {
			found = false
			return nil
		}
		return scanErr
	})
	if err != nil {
		return "", false, fmt.Errorf("error querying value: %w", err)
	}

	return value, found, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return storage.ErrEmptyKey
	}

	query, args, err := psql.Insert(tableName).
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	err = s.withTable(ctx, func() error {
		_, execErr := s.pool.Exec(ctx, query, args...)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("error upserting value: %w", err)
	}

	return nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return storage.ErrEmptyKey
	}

	query, args, err := psql.Delete(tableName).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	err = s.withTable(ctx, func() error {
		_, execErr := s.pool.Exec(ctx, query, args...)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("error deleting value: %w", err)
	}

	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}
