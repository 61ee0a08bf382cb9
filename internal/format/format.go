// Package format renders rule values for display. Rounding happens here
// and nowhere else; calculations keep full precision.
package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/tdm-calculator/internal/model"
)

// RoundToTwo rounds half away from zero to two decimal places.
func RoundToTwo(v float64) float64 {
	return math.Round(v*100) / 100
}

// Integer rounds to the nearest whole number.
func Integer(v float64) int {
	return int(math.Round(v))
}

// Percent floors a percentage for display.
func Percent(v float64) string {
	return strconv.FormatFloat(math.Floor(v), 'f', 0, 64)
}

// Number formats v with thousands separators and at most two decimals.
func Number(v float64) string {
	return NumberWithCommas(strconv.FormatFloat(RoundToTwo(v), 'f', -1, 64))
}

// NumberWithCommas inserts thousands separators into the integer part of
// a decimal string. Non-numeric text is returned unchanged.
func NumberWithCommas(s string) string {
	if s == "" {
		return s
	}
	sign := ""
	if s[0] == '-' || s[0] == '+' {
		sign, s = s[:1], s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	for _, r := range intPart {
		if r < '0' || r > '9' {
			return sign + s
		}
	}
	if len(intPart) <= 3 {
		return sign + s
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}

// Value renders a rule's raw value according to its data type.
func Value(r model.Rule) string {
	switch r.DataType {
	case model.DataTypeBoolean:
		if r.Value.Truthy() {
			return "Yes"
		}
		return "No"
	case model.DataTypeChoice:
		if c, ok := r.Choice(); ok {
			return c.Name
		}
		return r.Value.String()
	case model.DataTypeNumber:
		if n, ok := r.Value.Float(); ok {
			return Number(n)
		}
		return r.Value.String()
	}
	return r.Value.String()
}

// CalcValue renders a rule's computed value, or "" when it has none.
func CalcValue(r model.Rule) string {
	if r.CalcValue == nil {
		return ""
	}
	if r.CalcUnits == "%" {
		return Percent(*r.CalcValue)
	}
	return Number(*r.CalcValue)
}

// WithUnits appends units to a rendered value when both are present.
func WithUnits(value, units string) string {
	if value == "" || units == "" {
		return value
	}
	if units == "%" {
		return value + units
	}
	return value + " " + units
}
