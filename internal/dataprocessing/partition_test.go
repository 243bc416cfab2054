package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition(t *testing.T) {
	tbl := NewTable(
		[]string{"full_name", "open"},
		[][]string{
			{"A", "true"},
			{"B", "false"},
			{"C", "true"},
		},
	)

	open, closed, err := Partition(tbl)
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"A", "true"}, {"C", "true"}}, open.Rows)
	assert.Equal(t, [][]string{{"B", "false"}}, closed.Rows)
	assert.Equal(t, tbl.Columns, open.Columns)
	assert.Equal(t, tbl.Columns, closed.Columns)
}

func TestPartition_BooleanSpellings(t *testing.T) {
	tbl := NewTable(
		[]string{"open"},
		[][]string{
			{"TRUE"},
			{"False"},
			{" true "},
		},
	)

	open, closed, err := Partition(tbl)
	require.NoError(t, err)
	assert.Equal(t, 2, open.RowCount())
	assert.Equal(t, 1, closed.RowCount())
}

func TestPartition_NonBooleanRowsExcluded(t *testing.T) {
	tbl := NewTable(
		[]string{"full_name", "open"},
		[][]string{
			{"A", "true"},
			{"B", "yes"},
			{"C", ""},
			{"D", "1"},
			{"E", "false"},
		},
	)

	open, closed, err := Partition(tbl)
	require.NoError(t, err)

	// Rows with non-boolean open values land in neither output.
	assert.Equal(t, 1, open.RowCount())
	assert.Equal(t, 1, closed.RowCount())
	assert.Equal(t, "A", open.Cell(0, "full_name"))
	assert.Equal(t, "E", closed.Cell(0, "full_name"))
}

func TestPartition_MissingColumn(t *testing.T) {
	tbl := NewTable([]string{"full_name"}, [][]string{{"A"}})

	_, _, err := Partition(tbl)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestPartition_NoFabricatedOrDuplicatedRows(t *testing.T) {
	tbl := NewTable(
		[]string{"full_name", "open"},
		[][]string{
			{"A", "true"},
			{"B", "false"},
			{"C", "maybe"},
		},
	)

	open, closed, err := Partition(tbl)
	require.NoError(t, err)

	total := open.RowCount() + closed.RowCount()
	assert.LessOrEqual(t, total, tbl.RowCount())

	source := make(map[string]bool)
	for _, row := range tbl.Rows {
		source[row[0]] = true
	}
	seen := make(map[string]bool)
	for _, part := range []Table{open, closed} {
		for _, row := range part.Rows {
			assert.True(t, source[row[0]], "fabricated row %v", row)
			assert.False(t, seen[row[0]], "row %v in both partitions", row)
			seen[row[0]] = true
		}
	}
}
