// Package bdaterr defines the errors reported while converting BDAT tables.
//
// Payload-free failures are sentinel values matched with errors.Is. Failures
// that carry details are pointer types matched with errors.As.
package bdaterr

import (
	"errors"
	"fmt"

	"github.com/715d/bdatconv/pkg/bdat"
)

// MaxDuplicateColumns is the largest number of columns that may share a label
// in one table.
const MaxDuplicateColumns = 4

var (
	ErrNotLegacy     = errors.New("Not a legacy BDAT file")
	ErrNotModern     = errors.New("Not a modern BDAT file")
	ErrMissingSchema = errors.New("No schema files found, please run 'extract' without '--no-schema'")
)

// MissingArgumentError reports a required command-line argument that was not
// given.
type MissingArgumentError struct {
	Name string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("Missing required argument: %s", e.Name)
}

// UnknownFileTypeError reports an input whose type could not be determined.
type UnknownFileTypeError struct {
	Type string
}

func (e *UnknownFileTypeError) Error() string {
	return fmt.Sprintf("Unsupported file type '%s'", e.Type)
}

// OutdatedSchemaError reports a stored schema stamped with a different version
// than the one this build reads.
type OutdatedSchemaError struct {
	Table    string
	Found    int
	Expected int
}

func (e *OutdatedSchemaError) Error() string {
	return fmt.Sprintf("Outdated schema for file '%s', found version %d, expected version %d, "+
		"please run 'extract' again without '--no-schema'", e.Table, e.Found, e.Expected)
}

// MissingTypeInfoError reports a table deserialized without a schema whose
// columns do not all declare a type.
type MissingTypeInfoError struct {
	Table bdat.OptLabel
}

func (e *MissingTypeInfoError) Error() string {
	return fmt.Sprintf("Table %s is missing type information, please run 'extract' without '-u', "+
		"or add types manually", e.Table)
}

// IncompleteRowError reports a row with fewer fields than the table has
// columns. Row is the 0-based index of the row within the table's rows.
type IncompleteRowError struct {
	Row int
}

func (e *IncompleteRowError) Error() string {
	return fmt.Sprintf("Row %d does not have entries for all columns", e.Row)
}

// ExtraFieldsError reports a row with more fields than the table has columns
// when trailing fields are not allowed.
type ExtraFieldsError struct {
	Row      int
	Got      int
	Expected int
}

func (e *ExtraFieldsError) Error() string {
	return fmt.Sprintf("Row %d has %d entries, expected %d", e.Row, e.Got, e.Expected)
}

// MaxDuplicateColumnsError reports a label shared by more than
// MaxDuplicateColumns columns.
type MaxDuplicateColumnsError struct {
	Table  bdat.OptLabel
	Column bdat.OptLabel
}

func (e *MaxDuplicateColumnsError) Error() string {
	return fmt.Sprintf("Column %s in table %s exceeds the maximum duplicate column count of %d. "+
		"Please avoid using multiple columns with the same name.", e.Column, e.Table, MaxDuplicateColumns)
}

// DuplicateMismatchError reports columns sharing a label but not a type.
// TypeA and TypeB are in the order the columns were encountered.
type DuplicateMismatchError struct {
	Table  bdat.OptLabel
	Column bdat.OptLabel
	TypeA  bdat.ValueType
	TypeB  bdat.ValueType
}

func (e *DuplicateMismatchError) Error() string {
	return fmt.Sprintf("Columns %s in table %s differ in type (%s / %s). "+
		"Please avoid using multiple columns with the same name.", e.Column, e.Table, e.TypeA, e.TypeB)
}

// HeaderMismatchError reports a table whose inline column names disagree with
// its stored schema. Got is absent when the table has fewer columns than the
// schema, Wanted when it has more.
type HeaderMismatchError struct {
	Table  bdat.OptLabel
	Index  int
	Got    bdat.OptLabel
	Wanted bdat.OptLabel
}

func (e *HeaderMismatchError) Error() string {
	switch {
	case !e.Got.IsSome():
		return fmt.Sprintf("Column %d in table %s is missing, the schema expects %s, "+
			"please run 'extract' again", e.Index, e.Table, e.Wanted)
	case !e.Wanted.IsSome():
		return fmt.Sprintf("Column %d (%s) in table %s is not in the schema, "+
			"please run 'extract' again", e.Index, e.Got, e.Table)
	}
	return fmt.Sprintf("Column %d in table %s is named %s but the schema expects %s, "+
		"please run 'extract' again", e.Index, e.Table, e.Got, e.Wanted)
}

// CoercionError reports a field whose text is not a valid literal of its
// column's type.
type CoercionError struct {
	Table  bdat.OptLabel
	Row    int
	Column bdat.Label
	Type   bdat.ValueType
	Raw    string
	Err    error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("Row %d column %s in table %s: invalid %s value '%s': %v",
		e.Row, e.Column, e.Table, e.Type, e.Raw, e.Err)
}

func (e *CoercionError) Unwrap() error { return e.Err }
