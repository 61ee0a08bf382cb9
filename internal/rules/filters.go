package rules

import "github.com/Veraticus/tdm-calculator/internal/model"

// Predicate selects rules.
type Predicate func(*model.Rule) bool

// Calculation panels excluded from summary listings.
const (
	PanelLandUse        = 5
	PanelStrategyHeader = 10
	PanelParking        = 31
)

func byCategory(c model.Category) Predicate {
	return func(r *model.Rule) bool {
		return r.Category == c
	}
}

// Page filters. These are fixed contracts, not configuration.
var (
	ProjectDescription Predicate = byCategory(model.CategoryProjectDescription)
	LandUse            Predicate = byCategory(model.CategoryLandUse)
	Specification      Predicate = byCategory(model.CategoryInput)
	TargetPoint        Predicate = byCategory(model.CategoryTargetPoint)
	Strategy           Predicate = byCategory(model.CategoryStrategy)
	Package            Predicate = byCategory(model.CategoryPackage)
)

// Result selects displayed result rules whose code is listed in codes.
func Result(codes []model.RuleCode) Predicate {
	set := make(map[model.RuleCode]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return func(r *model.Rule) bool {
		if r.Category != model.CategoryResult || !r.Display {
			return false
		}
		_, ok := set[r.Code]
		return ok
	}
}

// Effective selects rules that count toward summary totals.
func Effective(r *model.Rule) bool {
	return r.Effective()
}

// Invalid selects rules that carry validation errors.
func Invalid(r *model.Rule) bool {
	return !r.Valid()
}

// SelectedMeasure selects the measures listed on the summary.
func SelectedMeasure(r *model.Rule) bool {
	switch r.Category {
	case model.CategoryMeasure, model.CategoryStrategy, model.CategoryPackage:
	default:
		return false
	}
	return r.CalculationPanelID != PanelStrategyHeader && r.Effective()
}

// SummarySpecification selects the specification inputs listed on the
// summary. Land uses and parking have their own summary lines.
func SummarySpecification(r *model.Rule) bool {
	return r.Category == model.CategoryInput &&
		r.CalculationPanelID != PanelLandUse &&
		r.CalculationPanelID != PanelParking &&
		r.Effective()
}

// SelectedLandUse selects the land uses that apply to the project.
func SelectedLandUse(r *model.Rule) bool {
	return r.Used && r.Value.Truthy() && r.CalculationPanelID == PanelLandUse
}

// And combines predicates; every one must match.
func And(preds ...Predicate) Predicate {
	return func(r *model.Rule) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// Or combines predicates; at least one must match.
func Or(preds ...Predicate) Predicate {
	return func(r *model.Rule) bool {
		for _, p := range preds {
			if p(r) {
				return true
			}
		}
		return false
	}
}
