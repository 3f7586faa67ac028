package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the repositories use. Narrowing it keeps
// repository tests free of a live database.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// noRows is the "no matching row" result the fallback (non-RETURNING) paths
// report, matching what QueryRow().Scan reports on the RETURNING paths.
func noRows() error { return pgx.ErrNoRows }
