package deser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/715d/bdatconv/pkg/bdaterr"
)

// ExtraFieldPolicy decides what happens to rows with more fields than the
// table has columns.
type ExtraFieldPolicy int

const (
	// ExtraFieldsReject fails the table with *bdaterr.ExtraFieldsError.
	ExtraFieldsReject ExtraFieldPolicy = iota

	// ExtraFieldsTruncate drops the trailing fields.
	ExtraFieldsTruncate
)

func (p ExtraFieldPolicy) String() string {
	switch p {
	case ExtraFieldsReject:
		return "reject"
	case ExtraFieldsTruncate:
		return "truncate"
	}
	return fmt.Sprintf("ExtraFieldPolicy(%d)", int(p))
}

// ParseExtraFieldPolicy parses "reject" or "truncate".
func ParseExtraFieldPolicy(s string) (ExtraFieldPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return ExtraFieldsReject, nil
	case "truncate":
		return ExtraFieldsTruncate, nil
	}
	return 0, fmt.Errorf("unknown extra field policy %q (want reject or truncate)", s)
}

// RawRow is a row whose arity matches the table's column count.
type RawRow struct {
	// Index is the 0-based position of the row in the table.
	Index  int
	Fields []string
}

// NormalizeRow checks that a row has exactly columns fields. Row index is
// 0-based. No field is converted here.
func NormalizeRow(index int, fields []string, columns int, policy ExtraFieldPolicy) (RawRow, error) {
	switch {
	case len(fields) < columns:
		return RawRow{}, &bdaterr.IncompleteRowError{Row: index}
	case len(fields) > columns:
		if policy != ExtraFieldsTruncate {
			return RawRow{}, &bdaterr.ExtraFieldsError{Row: index, Got: len(fields), Expected: columns}
		}
		slog.Debug("dropping extra row fields", "row", index, "got", len(fields), "expected", columns)
		fields = fields[:columns]
	}
	return RawRow{Index: index, Fields: fields}, nil
}
