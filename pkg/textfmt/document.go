// Package textfmt reads and writes the human-editable text form of BDAT
// tables. Tables are YAML documents; JSON input is accepted as YAML.
package textfmt

import (
	"errors"
	"fmt"
	"io"

	yaml "gopkg.in/yaml.v3"

	"github.com/715d/bdatconv/pkg/bdat"
)

// Document is a table as written by a user: raw field text, no types checked.
type Document struct {
	// Name is the table name; nil for anonymous tables.
	Name *bdat.Label `yaml:"name,omitempty"`

	// BaseID is the ID of the first row. Nil means bdat.DefaultBaseID.
	BaseID *int `yaml:"base_id,omitempty"`

	// Columns are the inline column definitions. They are optional when the
	// table is deserialized against a stored schema.
	Columns []ColumnDef `yaml:"columns,omitempty"`

	Rows []Fields `yaml:"rows"`

	// Source is the file the document was read from, if any.
	Source string `yaml:"-"`
}

// ColumnDef is an inline column definition. Type is bdat.Unknown when the
// column does not declare one.
type ColumnDef struct {
	Name bdat.Label     `yaml:"name"`
	Type bdat.ValueType `yaml:"type,omitempty"`
}

// Fields is the raw text of one row's cells.
type Fields []string

// Label returns the document's table name.
func (d *Document) Label() bdat.OptLabel {
	return bdat.Opt(d.Name)
}

// FirstID returns the ID of the document's first row.
func (d *Document) FirstID() int {
	if d.BaseID == nil {
		return bdat.DefaultBaseID
	}
	return *d.BaseID
}

// UnmarshalYAML takes every cell's scalar text verbatim, so `1`, `"1"` and
// `1.0` keep their spelling until the column type is known. Null cells are
// empty strings.
func (f *Fields) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: row must be a list of fields", n.Line)
	}
	out := make(Fields, 0, len(n.Content))
	for _, c := range n.Content {
		if c.Kind == yaml.AliasNode {
			c = c.Alias
		}
		if c.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d column %d: field must be a scalar", c.Line, c.Column)
		}
		if c.ShortTag() == "!!null" {
			out = append(out, "")
			continue
		}
		out = append(out, c.Value)
	}
	*f = out
	return nil
}

// MarshalYAML writes rows on a single line.
func (f Fields) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, s := range f {
		c := &yaml.Node{}
		c.SetString(s)
		n.Content = append(n.Content, c)
	}
	return n, nil
}

// Decode reads one document.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty table document")
		}
		return nil, err
	}
	return &doc, nil
}

// Encode writes t as a document with inline column types, so the output can
// be read back with or without a stored schema.
func Encode(w io.Writer, t *bdat.Table) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromTable(t)); err != nil {
		return fmt.Errorf("encoding table %s: %w", t.Name, err)
	}
	return enc.Close()
}

// FromTable converts a typed table back to its text form.
func FromTable(t *bdat.Table) *Document {
	doc := &Document{
		Columns: make([]ColumnDef, len(t.Columns)),
		Rows:    make([]Fields, len(t.Rows)),
	}
	if label, ok := t.Name.Get(); ok {
		doc.Name = &label
	}
	if t.BaseID != bdat.DefaultBaseID {
		base := t.BaseID
		doc.BaseID = &base
	}
	for i, c := range t.Columns {
		doc.Columns[i] = ColumnDef{Name: c.Label, Type: c.Type}
	}
	for i, row := range t.Rows {
		fields := make(Fields, len(row.Values))
		for j, v := range row.Values {
			fields[j] = v.Text()
		}
		doc.Rows[i] = fields
	}
	return doc
}
