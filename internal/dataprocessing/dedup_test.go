package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduplicate(t *testing.T) {
	tests := []struct {
		name     string
		table    Table
		wantRows [][]string
		wantErr  error
	}{
		{
			name: "composite key keeps first occurrence",
			table: NewTable(
				[]string{"full_name", "linkedin", "note"},
				[][]string{
					{"Alice", "in/alice", "first"},
					{"Alice", "in/alice", "second"},
					{"Alice", "in/alice2", "third"},
				},
			),
			wantRows: [][]string{
				{"Alice", "in/alice", "first"},
				{"Alice", "in/alice2", "third"},
			},
		},
		{
			name: "single column key",
			table: NewTable(
				[]string{"full_name"},
				[][]string{{"Alice"}, {"Bob"}, {"Alice"}},
			),
			wantRows: [][]string{{"Alice"}, {"Bob"}},
		},
		{
			name: "empty key cells compare equal",
			table: NewTable(
				[]string{"full_name", "linkedin"},
				[][]string{
					{"Alice", ""},
					{"Alice", ""},
					{"Bob", ""},
				},
			),
			wantRows: [][]string{{"Alice", ""}, {"Bob", ""}},
		},
		{
			name:    "no identity columns",
			table:   NewTable([]string{"company"}, [][]string{{"Acme"}}),
			wantErr: ErrNoIdentityColumns,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Deduplicate(tt.table)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.table.Columns, got.Columns)
			assert.Equal(t, tt.wantRows, got.Rows)
		})
	}
}

func TestDeduplicate_Idempotent(t *testing.T) {
	tbl := NewTable(
		[]string{"full_name", "linkedin"},
		[][]string{
			{"Alice", "in/alice"},
			{"Alice", "in/alice"},
			{"Bob", "in/bob"},
			{"Alice", ""},
		},
	)

	once, err := Deduplicate(tbl)
	require.NoError(t, err)
	twice, err := Deduplicate(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestDeduplicate_KeysPairwiseDistinct(t *testing.T) {
	tbl := NewTable(
		[]string{"full_name", "linkedin"},
		[][]string{
			{"Alice", "in/alice"},
			{"Alice", "in/alice"},
			{"Alice", "in/other"},
			{"Bob", "in/bob"},
		},
	)

	got, err := Deduplicate(tbl)
	require.NoError(t, err)

	key, err := ResolveIdentity(got)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := range got.Rows {
		v := key.ValueOf(got, i)
		assert.False(t, seen[v], "duplicate key survived dedup: %q", v)
		seen[v] = true
	}
}

func TestDeduplicate_CombinedSources(t *testing.T) {
	// Two sources carrying the same lead collapse to one row after combine.
	a := NewTable([]string{"full_name", "linkedin"}, [][]string{{"A", "x"}})
	b := NewTable([]string{"full_name", "linkedin"}, [][]string{{"A", "x"}})

	got, err := Deduplicate(Combine(a, b))
	require.NoError(t, err)
	assert.Equal(t, 1, got.RowCount())
}
