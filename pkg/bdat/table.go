package bdat

import "slices"

// DefaultBaseID is the ID of the first row when a table does not say otherwise.
const DefaultBaseID = 1

// Column is a single column definition.
type Column struct {
	Label Label     `json:"label" yaml:"name"`
	Type  ValueType `json:"type" yaml:"type"`
}

// ColumnGroup is the set of columns sharing one label. Indices point into
// Table.Columns in the order the columns appear.
type ColumnGroup struct {
	Label   Label     `json:"label"`
	Type    ValueType `json:"type"`
	Indices []int     `json:"indices"`
}

// Row is one table row; Values is parallel to Table.Columns.
type Row struct {
	ID     int     `json:"id"`
	Values []Value `json:"values"`
}

// Table is a fully deserialized, typed table.
type Table struct {
	Name    OptLabel      `json:"name"`
	BaseID  int           `json:"base_id"`
	Columns []Column      `json:"columns"`
	Groups  []ColumnGroup `json:"groups"`
	Rows    []Row         `json:"rows"`
}

// Group returns the column group for label.
func (t *Table) Group(label Label) (ColumnGroup, bool) {
	for _, g := range t.Groups {
		if g.Label == label {
			return g, true
		}
	}
	return ColumnGroup{}, false
}

// Lookup returns the values of every column labelled label in row, in column
// order. It returns nil if the row or the column does not exist.
func (t *Table) Lookup(row int, label Label) []Value {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	g, ok := t.Group(label)
	if !ok {
		return nil
	}
	values := make([]Value, len(g.Indices))
	for i, idx := range g.Indices {
		values[i] = t.Rows[row].Values[idx]
	}
	return values
}

// Equal reports whether two tables have the same name, columns, groups and
// rows.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.Name == o.Name && t.BaseID == o.BaseID &&
		slices.Equal(t.Columns, o.Columns) &&
		slices.EqualFunc(t.Groups, o.Groups, func(a, b ColumnGroup) bool {
			return a.Label == b.Label && a.Type == b.Type && slices.Equal(a.Indices, b.Indices)
		}) &&
		slices.EqualFunc(t.Rows, o.Rows, func(a, b Row) bool {
			return a.ID == b.ID && slices.Equal(a.Values, b.Values)
		})
}
