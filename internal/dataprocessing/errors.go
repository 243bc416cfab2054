package dataprocessing

import "errors"

// Sentinel errors for the processing core. Handlers and services match on
// these with errors.Is; the wrapping message names the file involved.
var (
	// ErrUnsupportedFileType is returned for extensions other than
	// .csv, .xls and .xlsx.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrParse is returned when a file's bytes cannot be decoded as the
	// format its extension declares.
	ErrParse = errors.New("file could not be parsed")

	// ErrNoIdentityColumns is returned when a table has neither a
	// full_name nor a linkedin column.
	ErrNoIdentityColumns = errors.New("neither 'full_name' nor 'linkedin' column found")

	// ErrIncompatibleKeys is returned when the identity columns of a
	// reference table and a candidate table do not overlap.
	ErrIncompatibleKeys = errors.New("identity columns mismatch between reference and check file")

	// ErrMissingColumn is returned when a required column (currently only
	// the partition column) is absent.
	ErrMissingColumn = errors.New("required column missing")
)
