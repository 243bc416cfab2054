package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveIdentity(t *testing.T) {
	tests := []struct {
		name        string
		columns     []string
		wantColumns []string
		wantErr     error
	}{
		{
			name:        "both columns give composite key",
			columns:     []string{"email", "full_name", "linkedin"},
			wantColumns: []string{"full_name", "linkedin"},
		},
		{
			name:        "full_name alone",
			columns:     []string{"full_name", "company"},
			wantColumns: []string{"full_name"},
		},
		{
			name:        "linkedin alone",
			columns:     []string{"company", "linkedin"},
			wantColumns: []string{"linkedin"},
		},
		{
			name:    "neither column fails",
			columns: []string{"company", "email"},
			wantErr: ErrNoIdentityColumns,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ResolveIdentity(NewTable(tt.columns, nil))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantColumns, key.Columns)
		})
	}
}

func TestIdentityKey_ValueOf(t *testing.T) {
	tbl := NewTable(
		[]string{"full_name", "linkedin"},
		[][]string{
			{"Alice", "in/alice"},
			{"Alice", ""},
			{"", ""},
			{"", ""},
		},
	)

	key, err := ResolveIdentity(tbl)
	require.NoError(t, err)

	// Composite values differ when either field differs.
	assert.NotEqual(t, key.ValueOf(tbl, 0), key.ValueOf(tbl, 1))
	assert.NotEqual(t, key.ValueOf(tbl, 1), key.ValueOf(tbl, 2))
	// Empty cells are valid key values and compare equal to each other.
	assert.Equal(t, key.ValueOf(tbl, 2), key.ValueOf(tbl, 3))
}
