package rowsource

import "strings"

// Source is a forward-only stream of rows with named columns.
type Source interface {
	// Columns returns the column names in source order.
	Columns() []string
	// Next advances to the next row and reports whether there is one.
	Next() bool
	// Value returns the cell of the current row for column, nil for NULL or an unknown column.
	Value(column string) any
	// Err returns the error that stopped iteration, if any.
	Err() error
}

// ScaleReporter is implemented by sources that know the declared decimal scale of
// their columns.
type ScaleReporter interface {
	DeclaredScale(column string) (int, bool)
}

// indexColumns maps lower-cased column names onto their first position.
func indexColumns(columns []string) map[string]int {
	index := make(map[string]int, len(columns))

	for i, c := range columns {
		key := strings.ToLower(c)
		if _, ok := index[key]; !ok {
			index[key] = i
		}
	}

	return index
}
