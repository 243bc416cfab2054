package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubtract(t *testing.T) {
	tests := []struct {
		name      string
		reference Table
		candidate Table
		wantRows  [][]string
		wantErr   error
	}{
		{
			name: "composite key removes exact pair matches only",
			reference: NewTable(
				[]string{"full_name", "linkedin"},
				[][]string{{"A", "x"}},
			),
			candidate: NewTable(
				[]string{"full_name", "linkedin"},
				[][]string{
					{"A", "x"},
					{"A", "y"},
					{"B", "y"},
				},
			),
			wantRows: [][]string{{"A", "y"}, {"B", "y"}},
		},
		{
			name: "falls back to full_name when reference lacks linkedin",
			reference: NewTable(
				[]string{"full_name"},
				[][]string{{"A"}},
			),
			candidate: NewTable(
				[]string{"full_name", "linkedin"},
				[][]string{{"A", "x"}, {"B", "y"}},
			),
			wantRows: [][]string{{"B", "y"}},
		},
		{
			name: "falls back to linkedin when full_name absent on one side",
			reference: NewTable(
				[]string{"linkedin", "company"},
				[][]string{{"x", "Acme"}},
			),
			candidate: NewTable(
				[]string{"full_name", "linkedin"},
				[][]string{{"A", "x"}, {"B", "y"}},
			),
			wantRows: [][]string{{"B", "y"}},
		},
		{
			name: "non-overlapping key shapes fail",
			reference: NewTable(
				[]string{"full_name"},
				[][]string{{"A"}},
			),
			candidate: NewTable(
				[]string{"linkedin"},
				[][]string{{"x"}},
			),
			wantErr: ErrIncompatibleKeys,
		},
		{
			name: "empty reference removes nothing",
			reference: NewTable(
				[]string{"full_name", "linkedin"},
				nil,
			),
			candidate: NewTable(
				[]string{"full_name", "linkedin"},
				[][]string{{"A", "x"}},
			),
			wantRows: [][]string{{"A", "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Subtract(tt.reference, tt.candidate)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.candidate.Columns, got.Columns)
			assert.Equal(t, tt.wantRows, got.Rows)
		})
	}
}

func TestSubtract_Idempotent(t *testing.T) {
	reference := NewTable(
		[]string{"full_name", "linkedin"},
		[][]string{{"A", "x"}, {"C", "z"}},
	)
	candidate := NewTable(
		[]string{"full_name", "linkedin"},
		[][]string{{"A", "x"}, {"B", "y"}, {"C", "z"}, {"D", "w"}},
	)

	once, err := Subtract(reference, candidate)
	require.NoError(t, err)
	twice, err := Subtract(reference, once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestSubtract_ResultDisjointFromReference(t *testing.T) {
	reference := NewTable(
		[]string{"full_name", "linkedin"},
		[][]string{{"A", "x"}, {"B", "y"}},
	)
	candidate := NewTable(
		[]string{"full_name", "linkedin"},
		[][]string{{"A", "x"}, {"B", "y"}, {"B", "q"}, {"E", "v"}},
	)

	got, err := Subtract(reference, candidate)
	require.NoError(t, err)

	key, err := reconcileKey(reference, got)
	require.NoError(t, err)

	refValues := make(map[string]bool)
	for i := range reference.Rows {
		refValues[key.ValueOf(reference, i)] = true
	}
	for i := range got.Rows {
		assert.False(t, refValues[key.ValueOf(got, i)],
			"row %d still present in reference", i)
	}
}
