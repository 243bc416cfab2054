package dataprocessing

import "strings"

// Column names that can form an identity key, and the partition flag column.
const (
	ColumnFullName = "full_name"
	ColumnLinkedIn = "linkedin"
	ColumnOpen     = "open"
)

// keySeparator joins key cells into a single comparable value. The unit
// separator cannot appear in CSV or Excel cell text produced by our parsers,
// so composite keys never collide across field boundaries.
const keySeparator = "\x1f"

// IdentityKey is the ordered set of columns that determines row identity for
// a particular table: full_name+linkedin when both exist, otherwise
// whichever one does.
type IdentityKey struct {
	Columns []string
}

// ResolveIdentity selects the identity key for a table by column
// availability: both columns, then full_name, then linkedin. A table with
// neither has no identity and fails with ErrNoIdentityColumns.
func ResolveIdentity(t Table) (IdentityKey, error) {
	hasName := t.HasColumn(ColumnFullName)
	hasLinkedIn := t.HasColumn(ColumnLinkedIn)

	switch {
	case hasName && hasLinkedIn:
		return IdentityKey{Columns: []string{ColumnFullName, ColumnLinkedIn}}, nil
	case hasName:
		return IdentityKey{Columns: []string{ColumnFullName}}, nil
	case hasLinkedIn:
		return IdentityKey{Columns: []string{ColumnLinkedIn}}, nil
	default:
		return IdentityKey{}, ErrNoIdentityColumns
	}
}

// ValueOf computes the comparable key value for one row. Empty cells are
// legitimate key values: two rows both missing linkedin compare equal on
// that column.
func (k IdentityKey) ValueOf(t Table, row int) string {
	if len(k.Columns) == 1 {
		return t.Cell(row, k.Columns[0])
	}
	parts := make([]string, len(k.Columns))
	for i, c := range k.Columns {
		parts[i] = t.Cell(row, c)
	}
	return strings.Join(parts, keySeparator)
}
