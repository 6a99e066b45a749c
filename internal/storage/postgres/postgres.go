package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is the shared Postgres handle the stores are built on. It embeds
// pgxpool.Pool, so querying and Close come from pgx directly.
type Pool struct {
	*pgxpool.Pool
}

// NewPool opens a connection pool and pings it once, so a bad DSN or an
// unreachable server fails here instead of on the first store call.
func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Pool{Pool: pool}, nil
}

// unique_violation, the code Postgres raises on key conflicts.
const uniqueViolationCode = "23505"

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func isNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
