package catalog

import (
	"errors"
	"fmt"

	"github.com/Veraticus/tdm-calculator/internal/model"
)

// FormulaKind selects how a computed rule derives its calc value.
type FormulaKind string

// Formula kinds.
const (
	// FormulaPoints scores a strategy from its own value.
	FormulaPoints FormulaKind = "points"
	// FormulaSum adds the calc values of effective, valid rules in Categories.
	FormulaSum FormulaKind = "sum"
	// FormulaRatio is Numerator / Denominator * Scale.
	FormulaRatio FormulaKind = "ratio"
	// FormulaWeighted is the sum of Weight * value over Terms.
	FormulaWeighted FormulaKind = "weighted"
	// FormulaBands maps inputs onto Values by threshold.
	FormulaBands FormulaKind = "bands"
	// FormulaAll awards Points when every rule in Inputs is effective and,
	// when Package is set, that package applies to the project.
	FormulaAll FormulaKind = "all"
)

var errBadFormula = errors.New("bad formula")

// Term is one weighted input.
type Term struct {
	Code   model.RuleCode `yaml:"code"`
	Weight float64        `yaml:"weight"`
}

// Band is one input of a bands formula. The band index of a value is the
// number of thresholds it meets or exceeds.
type Band struct {
	Code       model.RuleCode `yaml:"code"`
	Thresholds []float64      `yaml:"thresholds"`
}

// Formula describes a derived value.
type Formula struct {
	Kind        FormulaKind      `yaml:"kind"`
	Numerator   model.RuleCode   `yaml:"numerator"`
	Denominator model.RuleCode   `yaml:"denominator"`
	Categories  []model.Category `yaml:"categories"`
	Terms       []Term           `yaml:"terms"`
	Bands       []Band           `yaml:"bands"`
	Values      []float64        `yaml:"values"`
	Inputs      []model.RuleCode `yaml:"inputs"`
	Package     string           `yaml:"package"`
	Points      float64          `yaml:"points"`
	Scale       float64          `yaml:"scale"`
}

func (f *Formula) validate() error {
	switch f.Kind {
	case FormulaPoints:
	case FormulaSum:
		if len(f.Categories) == 0 {
			return fmt.Errorf("%w: sum needs categories", errBadFormula)
		}
	case FormulaRatio:
		if f.Numerator == "" || f.Denominator == "" {
			return fmt.Errorf("%w: ratio needs numerator and denominator", errBadFormula)
		}
	case FormulaWeighted:
		if len(f.Terms) == 0 {
			return fmt.Errorf("%w: weighted needs terms", errBadFormula)
		}
	case FormulaBands:
		if len(f.Bands) == 0 {
			return fmt.Errorf("%w: bands needs inputs", errBadFormula)
		}
		for _, b := range f.Bands {
			if len(b.Thresholds)+1 != len(f.Values) {
				return fmt.Errorf("%w: band %s has %d thresholds for %d values",
					errBadFormula, b.Code, len(b.Thresholds), len(f.Values))
			}
			for i := 1; i < len(b.Thresholds); i++ {
				if b.Thresholds[i] < b.Thresholds[i-1] {
					return fmt.Errorf("%w: band %s thresholds are not ascending", errBadFormula, b.Code)
				}
			}
		}
	case FormulaAll:
		if len(f.Inputs) == 0 {
			return fmt.Errorf("%w: all needs inputs", errBadFormula)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", errBadFormula, f.Kind)
	}
	return nil
}

// BandIndex returns how many thresholds v meets or exceeds.
func (b Band) BandIndex(v float64) int {
	idx := 0
	for _, t := range b.Thresholds {
		if v >= t {
			idx++
		}
	}
	return idx
}
