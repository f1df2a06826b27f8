package bdat

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var errNotFinite = errors.New("not a finite number")

// Value is a single typed cell. Values are comparable with ==.
type Value struct {
	Type ValueType

	u uint64
	i int64
	f float32
	s string
}

// UintValue builds an unsigned integer cell (UnsignedByte..UnsignedInt,
// HashRef, Percent, MessageID).
func UintValue(t ValueType, v uint64) Value { return Value{Type: t, u: v} }

// IntValue builds a signed integer cell.
func IntValue(t ValueType, v int64) Value { return Value{Type: t, i: v} }

// FloatValue builds a Float cell.
func FloatValue(v float32) Value { return Value{Type: Float, f: v} }

// StringValue builds a String or DebugString cell.
func StringValue(t ValueType, v string) Value { return Value{Type: t, s: v} }

func (v Value) Uint() uint64 { return v.u }
func (v Value) Int() int64 { return v.i }
func (v Value) Float() float32 { return v.f }
func (v Value) Str() string { return v.s }

// ParseValue coerces the raw text of a cell to t. The result formats back to
// text with Value.Text such that ParseValue(t, v.Text()) == v.
func ParseValue(t ValueType, raw string) (Value, error) {
	switch t {
	case UnsignedByte, UnsignedShort, UnsignedInt, MessageID:
		n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, uintBits(t))
		if err != nil {
			return Value{}, numError(err)
		}
		return UintValue(t, n), nil
	case Percent:
		n, err := strconv.ParseUint(strings.TrimSuffix(strings.TrimSpace(raw), "%"), 10, 8)
		if err != nil {
			return Value{}, numError(err)
		}
		return UintValue(t, n), nil
	case HashRef:
		n, err := parseHash(raw)
		if err != nil {
			return Value{}, numError(err)
		}
		return UintValue(t, n), nil
	case SignedByte, SignedShort, SignedInt:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, intBits(t))
		if err != nil {
			return Value{}, numError(err)
		}
		return IntValue(t, n), nil
	case Float:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 32)
		if err != nil {
			return Value{}, numError(err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, errNotFinite
		}
		return FloatValue(float32(f)), nil
	case String, DebugString:
		return StringValue(t, raw), nil
	}
	return Value{}, fmt.Errorf("cannot parse values of type %s", t)
}

// Text formats the value the way the text representation stores it.
func (v Value) Text() string {
	switch v.Type {
	case UnsignedByte, UnsignedShort, UnsignedInt, MessageID, Percent:
		return strconv.FormatUint(v.u, 10)
	case HashRef:
		return fmt.Sprintf("<%08X>", v.u)
	case SignedByte, SignedShort, SignedInt:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return strconv.FormatFloat(float64(v.f), 'g', -1, 32)
	case String, DebugString:
		return v.s
	}
	return ""
}

func (v Value) String() string { return v.Text() }

// MarshalJSON writes numbers as JSON numbers and everything else as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Type {
	case UnsignedByte, UnsignedShort, UnsignedInt, MessageID, Percent:
		return json.Marshal(v.u)
	case SignedByte, SignedShort, SignedInt:
		return json.Marshal(v.i)
	case Float:
		return json.Marshal(v.f)
	}
	return json.Marshal(v.Text())
}

// parseHash accepts "<1234ABCD>" (the extracted form), "0x1234abcd" or a
// decimal number.
func parseHash(raw string) (uint64, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") {
		return strconv.ParseUint(s[1:len(s)-1], 16, 32)
	}
	if hex, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		return strconv.ParseUint(hex, 16, 32)
	}
	return strconv.ParseUint(s, 10, 32)
}

func uintBits(t ValueType) int {
	switch t {
	case UnsignedByte:
		return 8
	case UnsignedShort, MessageID:
		return 16
	}
	return 32
}

func intBits(t ValueType) int {
	switch t {
	case SignedByte:
		return 8
	case SignedShort:
		return 16
	}
	return 32
}

// numError strips strconv's function-name prefix, which means nothing to a
// user editing a table.
func numError(err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err
	}
	return err
}
