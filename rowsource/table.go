package rowsource

import "strings"

// Table is an in-memory Source. Rows shorter than the column list read NULL for the
// missing cells.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]any
	scales  map[string]int
	pos     int
}

var (
	_ Source        = (*Table)(nil)
	_ ScaleReporter = (*Table)(nil)
)

func NewTable(columns []string, rows ...[]any) *Table {
	return &Table{
		columns: columns,
		index:   indexColumns(columns),
		rows:    rows,
		pos:     -1,
	}
}

// Append adds a row to the end of the table.
func (t *Table) Append(cells ...any) *Table {
	t.rows = append(t.rows, cells)
	return t
}

// WithScale declares the decimal scale of column.
func (t *Table) WithScale(column string, scale int) *Table {
	if t.scales == nil {
		t.scales = make(map[string]int)
	}

	t.scales[strings.ToLower(column)] = scale

	return t
}

// Reset rewinds the table before its first row.
func (t *Table) Reset() {
	t.pos = -1
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) Columns() []string {
	return t.columns
}

func (t *Table) Next() bool {
	if t.pos >= len(t.rows) {
		return false
	}

	t.pos++

	return t.pos < len(t.rows)
}

func (t *Table) Value(column string) any {
	if t.pos < 0 || t.pos >= len(t.rows) {
		return nil
	}

	i, ok := t.index[strings.ToLower(column)]
	if !ok || i >= len(t.rows[t.pos]) {
		return nil
	}

	return t.rows[t.pos][i]
}

func (t *Table) Err() error {
	return nil
}

func (t *Table) DeclaredScale(column string) (int, bool) {
	scale, ok := t.scales[strings.ToLower(column)]
	return scale, ok
}
