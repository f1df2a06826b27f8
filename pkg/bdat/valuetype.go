package bdat

import (
	"fmt"
	"strings"
)

// ValueType is the closed set of primitive cell types a BDAT column can hold.
type ValueType uint8

const (
	Unknown ValueType = iota
	UnsignedByte
	UnsignedShort
	UnsignedInt
	SignedByte
	SignedShort
	SignedInt
	String
	Float
	HashRef
	Percent
	DebugString
	MessageID
)

var valueTypeNames = [...]string{
	Unknown:       "Unknown",
	UnsignedByte:  "UnsignedByte",
	UnsignedShort: "UnsignedShort",
	UnsignedInt:   "UnsignedInt",
	SignedByte:    "SignedByte",
	SignedShort:   "SignedShort",
	SignedInt:     "SignedInt",
	String:        "String",
	Float:         "Float",
	HashRef:       "HashRef",
	Percent:       "Percent",
	DebugString:   "DebugString",
	MessageID:     "MessageId",
}

// valueTypeAliases maps lower-cased alternative spellings to types.
var valueTypeAliases = map[string]ValueType{
	"u8":      UnsignedByte,
	"uint8":   UnsignedByte,
	"u16":     UnsignedShort,
	"uint16":  UnsignedShort,
	"u32":     UnsignedInt,
	"uint32":  UnsignedInt,
	"i8":      SignedByte,
	"int8":    SignedByte,
	"i16":     SignedShort,
	"int16":   SignedShort,
	"i32":     SignedInt,
	"int32":   SignedInt,
	"str":     String,
	"string":  String,
	"f32":     Float,
	"float":   Float,
	"hash":    HashRef,
	"percent": Percent,
	"message": MessageID,
}

func (t ValueType) String() string {
	if int(t) < len(valueTypeNames) {
		return valueTypeNames[t]
	}
	return fmt.Sprintf("ValueType(%d)", uint8(t))
}

// Valid reports whether t can be used as a column type.
func (t ValueType) Valid() bool {
	return t > Unknown && t <= MessageID
}

// ParseValueType resolves a type name, case-insensitively, including the
// short aliases accepted in hand-written tables (u8, i32, float, ...).
func ParseValueType(s string) (ValueType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t, n := range valueTypeNames {
		if strings.ToLower(n) == name && ValueType(t).Valid() {
			return ValueType(t), nil
		}
	}
	if t, ok := valueTypeAliases[name]; ok {
		return t, nil
	}
	return Unknown, fmt.Errorf("unknown value type %q", s)
}

// MarshalText writes the canonical type name.
func (t ValueType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid value type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText accepts any spelling ParseValueType does.
func (t *ValueType) UnmarshalText(text []byte) error {
	parsed, err := ParseValueType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
