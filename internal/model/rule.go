// Package model defines the core data structures for the TDM calculator.
package model

// Choice is one option of a choice rule.
type Choice struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Points float64 `json:"points,omitempty"`
}

// ValidationError describes why a rule's value is not acceptable.
type ValidationError struct {
	Code    ValidationCode `json:"code"`
	Message string         `json:"message"`
}

// ValidationCode classifies validation errors.
type ValidationCode string

// Validation error codes.
const (
	ValidationRequired     ValidationCode = "required"
	ValidationNotNumber    ValidationCode = "not_number"
	ValidationBelowMin     ValidationCode = "below_min"
	ValidationAboveMax     ValidationCode = "above_max"
	ValidationTooShort     ValidationCode = "too_short"
	ValidationTooLong      ValidationCode = "too_long"
	ValidationUnknownValue ValidationCode = "unknown_choice"
)

// Rule is a single named field or computed metric of a project.
type Rule struct {
	MinValue           *float64          `json:"minValue,omitempty"`
	MaxValue           *float64          `json:"maxValue,omitempty"`
	MinStringLength    *int              `json:"minStringLength,omitempty"`
	MaxStringLength    *int              `json:"maxStringLength,omitempty"`
	CalcValue          *float64          `json:"calcValue"`
	Value              Value             `json:"value"`
	Code               RuleCode          `json:"code"`
	Name               string            `json:"name"`
	Category           Category          `json:"category"`
	DataType           DataType          `json:"dataType"`
	Units              string            `json:"units,omitempty"`
	CalcUnits          string            `json:"calcUnits,omitempty"`
	Comment            string            `json:"comment,omitempty"`
	Choices            []Choice          `json:"choices,omitempty"`
	ValidationErrors   []ValidationError `json:"validationErrors,omitempty"`
	CalculationPanelID int               `json:"calculationPanelId"`
	Used               bool              `json:"used"`
	Display            bool              `json:"display"`
	Required           bool              `json:"required"`
}

// Valid reports whether the rule has no validation errors.
func (r *Rule) Valid() bool {
	return len(r.ValidationErrors) == 0
}

// HasCalcValue reports whether the rule carries a computed component.
func (r *Rule) HasCalcValue() bool {
	return r.CalcValue != nil
}

// Effective reports whether the rule counts toward summary totals.
func (r *Rule) Effective() bool {
	if !r.Used || !r.Display {
		return false
	}
	return r.Value.Effective() || (r.CalcValue != nil && *r.CalcValue != 0)
}

// Numeric returns the rule's calc value when present, otherwise its value.
func (r *Rule) Numeric() float64 {
	if r.CalcValue != nil {
		return *r.CalcValue
	}
	n, _ := r.Value.Float()
	return n
}

// Choice returns the selected choice of a choice rule.
func (r *Rule) Choice() (Choice, bool) {
	if r.Value.IsAbsent() {
		return Choice{}, false
	}
	id := r.Value.String()
	for _, c := range r.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// Clone returns a deep copy of the rule.
func (r Rule) Clone() Rule {
	out := r
	if r.CalcValue != nil {
		v := *r.CalcValue
		out.CalcValue = &v
	}
	if r.MinValue != nil {
		v := *r.MinValue
		out.MinValue = &v
	}
	if r.MaxValue != nil {
		v := *r.MaxValue
		out.MaxValue = &v
	}
	if r.MinStringLength != nil {
		v := *r.MinStringLength
		out.MinStringLength = &v
	}
	if r.MaxStringLength != nil {
		v := *r.MaxStringLength
		out.MaxStringLength = &v
	}
	if r.Choices != nil {
		out.Choices = append([]Choice(nil), r.Choices...)
	}
	if r.ValidationErrors != nil {
		out.ValidationErrors = append([]ValidationError(nil), r.ValidationErrors...)
	}
	return out
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
