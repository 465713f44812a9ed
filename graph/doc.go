// Package graph materializes nested object graphs from flat query results.
//
// Result columns are named with dotted paths mirroring the target type, e.g.
//
//	SELECT c.id AS "id", o.id AS "orders.id", p.name AS "orders.products.name" ...
//
// Rows sharing a key path value at some depth are merged into one list item there. Key
// paths use the same notation as columns and apply only at the depth they name:
//
//	client, err := graph.Get[store.Client](src, "orders.id", "orders.products.id")
//
// A Materializer builds one map tree per (type, columns, keys) shape and reuses it for
// later calls of the same shape.
package graph
