package entities

// Table is an in-memory tabular dataset. Cell i of every row belongs to Columns[i].
// An empty cell stands for both an empty and a missing value.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable creates an empty table with the given columns
func NewTable(columns ...string) *Table {
	return &Table{
		Columns: columns,
		Rows:    make([][]string, 0),
	}
}

// ColumnIndex returns the position of the named column, or -1
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Value returns the cell of the given row for the named column.
// Unknown columns and short rows read as empty.
func (t *Table) Value(row int, column string) string {
	idx := t.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) || idx >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][idx]
}

// AppendRow adds a row, padding or cutting it to the table width
func (t *Table) AppendRow(cells ...string) {
	row := make([]string, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}
