package dataprocessing

// Subtract returns the candidate rows whose identity-key value does not
// appear in the reference table.
//
// The key shape is reconciled between the two tables: the composite pair
// when both tables carry full_name and linkedin, otherwise full_name alone,
// otherwise linkedin alone. Composite matching requires both fields to be
// equal at once; a row that matches on full_name but differs on linkedin is
// kept. When the shapes do not overlap at all the comparison is undefined
// and Subtract fails with ErrIncompatibleKeys.
func Subtract(reference, candidate Table) (Table, error) {
	key, err := reconcileKey(reference, candidate)
	if err != nil {
		return Table{}, err
	}

	refValues := make(map[string]struct{}, len(reference.Rows))
	for i := range reference.Rows {
		refValues[key.ValueOf(reference, i)] = struct{}{}
	}

	rows := make([][]string, 0, len(candidate.Rows))
	for i := range candidate.Rows {
		if _, hit := refValues[key.ValueOf(candidate, i)]; hit {
			continue
		}
		rows = append(rows, candidate.Rows[i])
	}

	return Table{Columns: candidate.Columns, Rows: rows}, nil
}

// reconcileKey picks the widest identity key shared by both tables.
func reconcileKey(reference, candidate Table) (IdentityKey, error) {
	both := func(col string) bool {
		return reference.HasColumn(col) && candidate.HasColumn(col)
	}

	switch {
	case both(ColumnFullName) && both(ColumnLinkedIn):
		return IdentityKey{Columns: []string{ColumnFullName, ColumnLinkedIn}}, nil
	case both(ColumnFullName):
		return IdentityKey{Columns: []string{ColumnFullName}}, nil
	case both(ColumnLinkedIn):
		return IdentityKey{Columns: []string{ColumnLinkedIn}}, nil
	default:
		return IdentityKey{}, ErrIncompatibleKeys
	}
}
