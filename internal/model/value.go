package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind identifies which variant a Value holds.
type ValueKind int

const (
	// KindAbsent is an unset value.
	KindAbsent ValueKind = iota
	// KindBool is a checkbox value.
	KindBool
	// KindNumber is a numeric value.
	KindNumber
	// KindString is a text or choice value.
	KindString
)

// Value is the raw input of a rule. The zero Value is absent.
type Value struct {
	s    string
	n    float64
	kind ValueKind
	b    bool
}

// Absent returns an unset value.
func Absent() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String returns a text value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// ValueOf converts a decoded YAML or JSON scalar into a Value.
func ValueOf(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Absent(), nil
	case bool:
		return Bool(t), nil
	case int:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case float64:
		return Number(t), nil
	case string:
		return String(t), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", v)
	}
}

// ParseValue interprets raw user input according to the rule's data type.
// Input that does not parse is kept as text so validation can report it.
func ParseValue(dataType DataType, raw string) Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Absent()
	}

	switch dataType {
	case DataTypeBoolean:
		switch strings.ToLower(raw) {
		case "true", "yes", "y", "1", "on", "x":
			return Bool(true)
		case "false", "no", "n", "0", "off":
			return Bool(false)
		}
	case DataTypeNumber:
		if n, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64); err == nil {
			return Number(n)
		}
	}
	return String(raw)
}

// Kind returns the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// IsAbsent reports whether v is unset.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Bool returns the boolean held by v, if any.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Text returns the string held by v, if any.
func (v Value) Text() (string, bool) {
	return v.s, v.kind == KindString
}

// Float returns v as a number. Booleans count as 0 or 1 and numeric
// strings are parsed.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.n, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindString:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Truthy reports whether v is set to something other than false, zero,
// NaN or the empty string.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0 && !math.IsNaN(v.n)
	case KindString:
		return v.s != ""
	}
	return false
}

// Effective reports whether v counts toward summary totals. The text "0"
// means "not applicable" and is not effective.
func (v Value) Effective() bool {
	if !v.Truthy() {
		return false
	}
	return !(v.kind == KindString && v.s == "0")
}

// Equal reports whether v and o hold the same variant and content.
func (v Value) Equal(o Value) bool {
	return v == o
}

// String formats v for display.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindString:
		return v.s
	}
	return ""
}

// MarshalJSON encodes v as a JSON scalar, with absent as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		return json.Marshal(v.n)
	case KindString:
		return json.Marshal(v.s)
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes a JSON scalar into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
