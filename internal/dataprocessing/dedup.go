package dataprocessing

// Deduplicate returns a table with one row per distinct identity-key value,
// keeping the first occurrence in input order and preserving all columns.
// It fails with ErrNoIdentityColumns when the table has no identity key.
func Deduplicate(t Table) (Table, error) {
	key, err := ResolveIdentity(t)
	if err != nil {
		return Table{}, err
	}

	seen := make(map[string]struct{}, len(t.Rows))
	rows := make([][]string, 0, len(t.Rows))
	for i := range t.Rows {
		v := key.ValueOf(t, i)
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		rows = append(rows, t.Rows[i])
	}

	return Table{Columns: t.Columns, Rows: rows}, nil
}
