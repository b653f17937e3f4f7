package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/letsssgooo/quizwebapp/internal/storage"
)

var _ storage.Repository = (*Storage)(nil)

// uniqueViolation - код ошибки PostgreSQL при нарушении уникальности.
const uniqueViolation = "23505"

// Storage реализует storage.Repository поверх PostgreSQL.
type Storage struct {
	pool *pgxpool.Pool
}

// NewStorage подключается к базе по dsn.
func NewStorage(ctx context.Context, dsn string) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dsn: %w", err)
	}

	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}

	return &Storage{pool: pool}, nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() {
	s.pool.Close()
}

// Ping проверяет соединение с базой.
func (s *Storage) Ping(ctx context.Context) error {
	return wrapErr("ping", s.pool.Ping(ctx))
}

// wrapErr приводит ошибки драйвера к ошибкам хранилища.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}

	return fmt.Errorf("postgres %s: %w: %w", op, storage.ErrUnavailable, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
