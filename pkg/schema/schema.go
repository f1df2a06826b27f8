// Package schema stores the column layout of extracted tables so that edited
// text tables can be deserialized back into typed tables.
package schema

import (
	"fmt"

	"github.com/715d/bdatconv/pkg/bdat"
)

// CurrentVersion is the schema format version this build writes and reads.
// Schemas stamped with any other version must be extracted again.
const CurrentVersion = 3

// Extension is the file extension of stored schemas.
const Extension = ".bschema"

// Schema is the stored layout of one table. BaseID is nil when the schema
// does not record the first row ID.
type Schema struct {
	Table   bdat.Label    `yaml:"table"`
	Version int           `yaml:"version"`
	BaseID  *int          `yaml:"base_id,omitempty"`
	Columns []bdat.Column `yaml:"columns"`
}

// FromTable builds the schema describing t, stamped with CurrentVersion.
func FromTable(t *bdat.Table) *Schema {
	label, _ := t.Name.Get()
	base := t.BaseID
	return &Schema{
		Table:   label,
		Version: CurrentVersion,
		BaseID:  &base,
		Columns: append([]bdat.Column(nil), t.Columns...),
	}
}

// validate checks the parts of a decoded schema that YAML decoding cannot.
func (s *Schema) validate() error {
	for i, c := range s.Columns {
		if !c.Type.Valid() {
			return fmt.Errorf("column %d (%s) has no type", i, c.Label)
		}
	}
	return nil
}
