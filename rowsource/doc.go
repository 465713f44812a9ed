// Package rowsource adapts tabular query results into the forward-only row stream the
// materializer consumes.
//
// A Source reports its column names once and then yields rows. Cells are looked up by
// column name, case-insensitively; nil stands for NULL. Two implementations are
// provided: Table, an in-memory result set, and SQL, a wrapper over *sql.Rows.
package rowsource
