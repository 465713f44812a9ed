package rowsource

import (
	"database/sql"
	"fmt"
	"strings"
)

// SQL adapts *sql.Rows. It owns the rows and closes them once exhausted.
type SQL struct {
	rows    *sql.Rows
	columns []string
	index   map[string]int
	scales  map[string]int
	values  []any
	err     error
	closed  bool
}

var (
	_ Source        = (*SQL)(nil)
	_ ScaleReporter = (*SQL)(nil)
)

// FromSQL wraps rows, reading column names and declared decimal scales up front.
func FromSQL(rows *sql.Rows) (*SQL, error) {
	columns, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	s := &SQL{
		rows:    rows,
		columns: columns,
		index:   indexColumns(columns),
		scales:  make(map[string]int),
	}

	// column types are optional: drivers that cannot report them lose scale information only
	if types, err := rows.ColumnTypes(); err == nil {
		for i, ct := range types {
			if _, scale, ok := ct.DecimalSize(); ok && i < len(columns) {
				s.scales[strings.ToLower(columns[i])] = int(scale)
			}
		}
	}

	return s, nil
}

func (s *SQL) Columns() []string {
	return s.columns
}

func (s *SQL) Next() bool {
	if s.closed {
		return false
	}

	if !s.rows.Next() {
		s.err = s.rows.Err()
		_ = s.Close()

		return false
	}

	values := make([]any, len(s.columns))
	dest := make([]any, len(values))

	for i := range values {
		dest[i] = &values[i]
	}

	if err := s.rows.Scan(dest...); err != nil {
		s.err = fmt.Errorf("failed to scan row: %w", err)
		_ = s.Close()

		return false
	}

	s.values = values

	return true
}

func (s *SQL) Value(column string) any {
	i, ok := s.index[strings.ToLower(column)]
	if !ok || i >= len(s.values) {
		return nil
	}

	return s.values[i]
}

func (s *SQL) Err() error {
	return s.err
}

func (s *SQL) DeclaredScale(column string) (int, bool) {
	scale, ok := s.scales[strings.ToLower(column)]
	return scale, ok
}

// Close releases the underlying rows. Further calls to Next report false; closing twice
// is a no-op.
func (s *SQL) Close() error {
	if s.closed {
		return nil
	}

	s.closed = true
	s.values = nil

	return s.rows.Close()
}
