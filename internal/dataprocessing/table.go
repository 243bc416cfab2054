package dataprocessing

// Table is an in-memory table of lead records. Columns holds the header in
// order; every row has exactly len(Columns) cells, padded with "" where the
// source row was shorter. A Table is immutable once built.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable builds a table from a header and rows, normalizing every row to
// the header width.
func NewTable(columns []string, rows [][]string) Table {
	cols := append([]string(nil), columns...)
	normalized := make([][]string, 0, len(rows))
	for _, row := range rows {
		out := make([]string, len(cols))
		copy(out, row)
		normalized = append(normalized, out)
	}
	return Table{Columns: cols, Rows: normalized}
}

// ColumnIndex returns the position of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Empty reports whether the table has no data rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// RowCount returns the number of data rows.
func (t Table) RowCount() int {
	return len(t.Rows)
}

// Cell returns the value at (row, column name); "" when the column is absent.
func (t Table) Cell(row int, name string) string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return ""
	}
	return t.Rows[row][idx]
}

// Combine concatenates the rows of the given tables in order. The column set
// is the union of all inputs in first-seen order; cells a source table lacks
// are filled with "".
func Combine(tables ...Table) Table {
	var columns []string
	seen := make(map[string]int)
	for _, t := range tables {
		for _, c := range t.Columns {
			if _, ok := seen[c]; !ok {
				seen[c] = len(columns)
				columns = append(columns, c)
			}
		}
	}

	var rows [][]string
	for _, t := range tables {
		for _, row := range t.Rows {
			out := make([]string, len(columns))
			for i, c := range t.Columns {
				out[seen[c]] = row[i]
			}
			rows = append(rows, out)
		}
	}

	return Table{Columns: columns, Rows: rows}
}
