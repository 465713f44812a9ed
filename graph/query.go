package graph

import (
	"context"
	"database/sql"
	"fmt"

	"rowgraph/rowsource"
)

// Queryer runs queries; *sql.DB, *sql.Conn and *sql.Tx implement it.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Query runs query and materializes its rows. ctx bounds the query only: rows already
// fetched are materialized regardless.
func Query[T any](ctx context.Context, m *Materializer, q Queryer, query string, args []any, keys ...string) (T, error) {
	var zero T

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return zero, fmt.Errorf("failed to run query: %w", err)
	}

	src, err := rowsource.FromSQL(rows)
	if err != nil {
		return zero, err
	}
	defer func() { _ = src.Close() }()

	return Materialize[T](m, src, keys...)
}

// List is Query for a list of T, one item per row or per key.
func List[T any](ctx context.Context, m *Materializer, q Queryer, query string, args []any, keys ...string) ([]T, error) {
	return Query[[]T](ctx, m, q, query, args, keys...)
}
