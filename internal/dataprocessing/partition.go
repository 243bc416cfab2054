package dataprocessing

import (
	"fmt"
	"strings"
)

// Partition splits a table into (trueTable, falseTable) on the strict
// boolean value of the open column, preserving relative row order. Rows
// whose open cell is neither true nor false belong to neither output. It
// fails with ErrMissingColumn when the open column is absent.
func Partition(t Table) (Table, Table, error) {
	idx := t.ColumnIndex(ColumnOpen)
	if idx < 0 {
		return Table{}, Table{}, fmt.Errorf("%w: %q", ErrMissingColumn, ColumnOpen)
	}

	var trueRows, falseRows [][]string
	for _, row := range t.Rows {
		// Excel serializes booleans as TRUE/FALSE, so compare
		// case-insensitively after trimming.
		switch strings.ToLower(strings.TrimSpace(row[idx])) {
		case "true":
			trueRows = append(trueRows, row)
		case "false":
			falseRows = append(falseRows, row)
		}
	}

	return Table{Columns: t.Columns, Rows: trueRows},
		Table{Columns: t.Columns, Rows: falseRows},
		nil
}
