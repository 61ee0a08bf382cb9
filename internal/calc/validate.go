package calc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/tdm-calculator/internal/format"
	"github.com/Veraticus/tdm-calculator/internal/model"
)

// Validate checks a rule's raw value against its constraints.
// The result is empty when the value is acceptable.
func Validate(r *model.Rule) []model.ValidationError {
	var errs []model.ValidationError
	add := func(code model.ValidationCode, msg string, args ...any) {
		errs = append(errs, model.ValidationError{Code: code, Message: fmt.Sprintf(msg, args...)})
	}

	if missing(r.Value) {
		if r.Required {
			add(model.ValidationRequired, "%s is required", r.Name)
		}
		return errs
	}

	switch r.DataType {
	case model.DataTypeNumber:
		n, ok := r.Value.Float()
		if !ok {
			add(model.ValidationNotNumber, "%s must be a number", r.Name)
			return errs
		}
		if r.MinValue != nil && n < *r.MinValue {
			add(model.ValidationBelowMin, "%s must be at least %s", r.Name, format.Number(*r.MinValue))
		}
		if r.MaxValue != nil && n > *r.MaxValue {
			add(model.ValidationAboveMax, "%s must be at most %s", r.Name, format.Number(*r.MaxValue))
		}

	case model.DataTypeString, model.DataTypeTextarea:
		length := utf8.RuneCountInString(r.Value.String())
		if r.MinStringLength != nil && length < *r.MinStringLength {
			add(model.ValidationTooShort, "%s must be at least %d characters", r.Name, *r.MinStringLength)
		}
		if r.MaxStringLength != nil && length > *r.MaxStringLength {
			add(model.ValidationTooLong, "%s must be at most %d characters", r.Name, *r.MaxStringLength)
		}

	case model.DataTypeChoice:
		if _, ok := r.Choice(); !ok {
			add(model.ValidationUnknownValue, "%s has no choice %q", r.Name, r.Value.String())
		}
	}

	return errs
}

func missing(v model.Value) bool {
	if v.IsAbsent() {
		return true
	}
	s, ok := v.Text()
	return ok && strings.TrimSpace(s) == ""
}
