package main

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"slices"
	"strings"

	_ "modernc.org/sqlite"

	"rowgraph/graph"
	"rowgraph/store"
)

const demoSchema = `
	CREATE TABLE client (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
	CREATE TABLE "order" (
		id INTEGER PRIMARY KEY,
		client_id INTEGER NOT NULL REFERENCES client (id),
		delivery_time TEXT,
		status TEXT NOT NULL
	);
	CREATE TABLE order_product (
		order_id INTEGER NOT NULL REFERENCES "order" (id),
		product_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (order_id, product_id)
	);

	INSERT INTO client VALUES (1, 'Ann'), (2, 'Bob'), (9, 'Eve');
	INSERT INTO "order" VALUES
		(10, 1, '2024-03-01T10:00:00Z', 'F'),
		(11, 1, '2024-03-08T10:00:00Z', 'S'),
		(20, 2, NULL, 'C');
	INSERT INTO order_product VALUES
		(10, 100, 'Tea', '4.50'),
		(10, 101, 'Cup', '12.00'),
		(11, 100, 'Tea', '4.50'),
		(20, 102, 'Kettle', '39.90');
`

// openDemoDB opens an in-memory database seeded with the demo clients.
func openDemoDB(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open demo database: %w", err)
	}

	// every connection would see its own empty in-memory database
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, demoSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to seed demo database: %w", err)
	}

	return db, nil
}

// target is a result type the commands can map onto.
type target struct {
	typ   reflect.Type
	query func(ctx context.Context, m *graph.Materializer, q graph.Queryer, query string, args []any, keys []string) (any, error)
}

func targetOf[T any]() target {
	return target{
		typ: reflect.TypeFor[T](),
		query: func(ctx context.Context, m *graph.Materializer, q graph.Queryer, query string, args []any, keys []string) (any, error) {
			return graph.Query[T](ctx, m, q, query, args, keys...)
		},
	}
}

var targets = map[string]target{
	"client":     targetOf[store.Client](),
	"clients":    targetOf[[]store.Client](),
	"productids": targetOf[[]int](),
	"count":      targetOf[int](),
}

func targetNames() string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}

	slices.Sort(names)

	return strings.Join(names, ", ")
}
