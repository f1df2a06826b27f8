// Package harness runs golden deserialization cases stored under testdata.
package harness

// RunConfiguration is one way of deserializing a case's tables, together with
// what each table is expected to produce.
type RunConfiguration struct {
	// Name is a descriptive name for this configuration.
	Name string `yaml:"name"`

	// UnsafeWithoutSchema reads column types from the tables themselves.
	UnsafeWithoutSchema bool `yaml:"unsafe_without_schema"`

	// ExtraFields is the extra field policy ("reject" or "truncate").
	ExtraFields string `yaml:"extra_fields,omitempty"`

	// ExpectedVersion overrides the schema version the store accepts.
	ExpectedVersion int `yaml:"expected_version,omitempty"`

	// ExpectedTables lists the outcome for every table of the case.
	ExpectedTables []ExpectedTable `yaml:"expected_tables"`
}

// ExpectedTable is the expected outcome for one table.
type ExpectedTable struct {
	// Table is the table name.
	Table string `yaml:"table"`

	// Columns are the expected columns as "Label:Type".
	Columns []string `yaml:"columns,omitempty"`

	// Rows are the expected cells in text form.
	Rows [][]string `yaml:"rows,omitempty"`

	// ErrorKind is the expected bdaterr.Kind; empty means success.
	ErrorKind string `yaml:"error_kind,omitempty"`

	// Error is a substring the error message must contain.
	Error string `yaml:"error,omitempty"`
}

// TestCase is a directory holding tables/, an optional schemas/ and
// expected.yaml.
type TestCase struct {
	// Dir is the case directory relative to the testdata root.
	Dir string `yaml:"-"`

	// Runs are the configurations to run the case under.
	Runs []RunConfiguration `yaml:"runs"`
}
