// Package dataprocessing contains the lead-table core: parsing uploaded
// CSV/Excel files into immutable tables, resolving identity keys,
// deduplicating rows, subtracting a reference set, and partitioning by the
// open flag.
//
// Every operation returns a new Table; a Table is never mutated after it is
// built. Errors that callers branch on are exported sentinels
// (ErrNoIdentityColumns, ErrIncompatibleKeys, ...) and always carry the name
// of the offending file when one is known.
package dataprocessing
