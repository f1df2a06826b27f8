// Package bdat holds the in-memory model of BDAT tables: labels, value types,
// typed values and deserialized tables.
package bdat

import "encoding/json"

// UnnamedLabel is how an absent label is rendered.
const UnnamedLabel = "<Unnamed>"

// Label names a table or a column.
type Label string

func (l Label) String() string { return string(l) }

// OptLabel is a label that may be absent, e.g. for anonymous tables.
type OptLabel struct {
	label Label
	ok    bool
}

// LabelLike is anything Opt can turn into an OptLabel.
type LabelLike interface {
	Label | *Label | OptLabel | string
}

// Opt builds an OptLabel from any label-like value. Nil pointers are absent,
// strings and labels are always present (even when empty).
func Opt[L LabelLike](l L) OptLabel {
	switch v := any(l).(type) {
	case Label:
		return OptLabel{label: v, ok: true}
	case *Label:
		if v == nil {
			return OptLabel{}
		}
		return OptLabel{label: *v, ok: true}
	case string:
		return OptLabel{label: Label(v), ok: true}
	case OptLabel:
		return v
	}
	return OptLabel{}
}

// NoLabel returns an absent label.
func NoLabel() OptLabel { return OptLabel{} }

// Get returns the label and whether it is present.
func (o OptLabel) Get() (Label, bool) { return o.label, o.ok }

// IsSome reports whether the label is present.
func (o OptLabel) IsSome() bool { return o.ok }

// String renders the label, or <Unnamed> when absent.
func (o OptLabel) String() string {
	if !o.ok {
		return UnnamedLabel
	}
	return string(o.label)
}

// MarshalJSON writes the label as a string, or null when absent.
func (o OptLabel) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(string(o.label))
}
