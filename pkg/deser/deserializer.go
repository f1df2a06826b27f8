// Package deser rebuilds typed BDAT tables from their text form, reconciling
// each table with its stored schema.
package deser

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/715d/bdatconv/pkg/bdat"
	"github.com/715d/bdatconv/pkg/bdaterr"
	"github.com/715d/bdatconv/pkg/schema"
	"github.com/715d/bdatconv/pkg/textfmt"
)

// SchemaLoader provides stored schemas; *schema.Store implements it.
type SchemaLoader interface {
	Load(table bdat.OptLabel) (*schema.Schema, error)
}

// Options configures a Deserializer.
type Options struct {
	// WithoutSchema takes column types from the tables themselves instead of
	// stored schemas.
	WithoutSchema bool

	// ExtraFields decides what to do with rows that have too many fields.
	ExtraFields ExtraFieldPolicy

	// Jobs bounds how many tables DeserializeAll works on at once.
	// Zero means runtime.NumCPU().
	Jobs int

	// FailFast makes DeserializeAll stop at the first failing table.
	FailFast bool
}

// Deserializer turns text documents into typed tables.
type Deserializer struct {
	schemas SchemaLoader
	opts    Options
}

// New creates a Deserializer. schemas may be nil when opts.WithoutSchema is set.
func New(schemas SchemaLoader, opts Options) *Deserializer {
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.NumCPU()
	}
	return &Deserializer{schemas: schemas, opts: opts}
}

// Deserialize converts one document. On any failure it returns the error and
// no table.
func (d *Deserializer) Deserialize(ctx context.Context, doc *textfmt.Document) (*bdat.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table := doc.Label()

	columns, baseID, err := d.resolveColumns(table, doc)
	if err != nil {
		return nil, err
	}

	// Structural defects are reported once here rather than as a type error
	// in every row.
	groups, err := Reconcile(table, columns)
	if err != nil {
		return nil, err
	}

	rows := make([]bdat.Row, 0, len(doc.Rows))
	for i, fields := range doc.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := NormalizeRow(i, fields, len(columns), d.opts.ExtraFields)
		if err != nil {
			return nil, err
		}
		values, err := coerceRow(table, raw, columns)
		if err != nil {
			return nil, err
		}
		rows = append(rows, bdat.Row{ID: baseID + i, Values: values})
	}

	slog.Debug("deserialized table", "table", table, "columns", len(columns), "rows", len(rows))
	return &bdat.Table{
		Name:    table,
		BaseID:  baseID,
		Columns: columns,
		Groups:  groups,
		Rows:    rows,
	}, nil
}

// resolveColumns returns the table's column list and first row ID, from the
// stored schema or, without one, from the document's inline definitions.
func (d *Deserializer) resolveColumns(table bdat.OptLabel, doc *textfmt.Document) ([]bdat.Column, int, error) {
	if d.opts.WithoutSchema {
		if len(doc.Columns) == 0 {
			return nil, 0, &bdaterr.MissingTypeInfoError{Table: table}
		}
		columns := make([]bdat.Column, len(doc.Columns))
		for i, c := range doc.Columns {
			if !c.Type.Valid() {
				return nil, 0, &bdaterr.MissingTypeInfoError{Table: table}
			}
			columns[i] = bdat.Column{Label: c.Name, Type: c.Type}
		}
		return columns, doc.FirstID(), nil
	}

	if d.schemas == nil {
		return nil, 0, bdaterr.ErrMissingSchema
	}
	sch, err := d.schemas.Load(table)
	if err != nil {
		return nil, 0, err
	}
	if err := checkHeader(table, doc.Columns, sch.Columns); err != nil {
		return nil, 0, err
	}

	baseID := doc.FirstID()
	if doc.BaseID == nil && sch.BaseID != nil {
		baseID = *sch.BaseID
	}
	// The schema is shared with other tables; the result must own its columns.
	return append([]bdat.Column(nil), sch.Columns...), baseID, nil
}

// checkHeader compares inline column names, when the document has any, with
// the schema's. Inline types are ignored: the schema is authoritative.
func checkHeader(table bdat.OptLabel, inline []textfmt.ColumnDef, stored []bdat.Column) error {
	if len(inline) == 0 {
		return nil
	}
	for i := range max(len(inline), len(stored)) {
		switch {
		case i >= len(inline):
			return &bdaterr.HeaderMismatchError{Table: table, Index: i, Wanted: bdat.Opt(stored[i].Label)}
		case i >= len(stored):
			return &bdaterr.HeaderMismatchError{Table: table, Index: i, Got: bdat.Opt(inline[i].Name)}
		case inline[i].Name != stored[i].Label:
			return &bdaterr.HeaderMismatchError{
				Table: table, Index: i, Got: bdat.Opt(inline[i].Name), Wanted: bdat.Opt(stored[i].Label),
			}
		case inline[i].Type.Valid() && inline[i].Type != stored[i].Type:
			slog.Debug("ignoring inline column type", "table", table, "column", stored[i].Label,
				"inline", inline[i].Type, "schema", stored[i].Type)
		}
	}
	return nil
}

func coerceRow(table bdat.OptLabel, raw RawRow, columns []bdat.Column) ([]bdat.Value, error) {
	values := make([]bdat.Value, len(columns))
	for i, c := range columns {
		v, err := bdat.ParseValue(c.Type, raw.Fields[i])
		if err != nil {
			return nil, &bdaterr.CoercionError{
				Table:  table,
				Row:    raw.Index,
				Column: c.Label,
				Type:   c.Type,
				Raw:    raw.Fields[i],
				Err:    err,
			}
		}
		values[i] = v
	}
	return values, nil
}

// String describes the options for logging.
func (o Options) String() string {
	return fmt.Sprintf("without_schema=%t extra_fields=%s jobs=%d fail_fast=%t",
		o.WithoutSchema, o.ExtraFields, o.Jobs, o.FailFast)
}
