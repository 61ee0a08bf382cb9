// Package calc recomputes the derived parts of a project: display and
// usage conditions, validation errors and formula calc values.
package calc

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/tdm-calculator/internal/catalog"
	"github.com/Veraticus/tdm-calculator/internal/model"
	"github.com/Veraticus/tdm-calculator/internal/rules"
)

// Calculator errors.
var (
	ErrUnknownPackage    = errors.New("unknown package")
	ErrPackageNotAllowed = errors.New("package does not apply to this project")
)

// Calculator derives values using the formulas of a catalog.
type Calculator struct {
	cat   *catalog.Catalog
	order []model.RuleCode
}

// New creates a calculator for the given catalog.
func New(cat *catalog.Catalog) *Calculator {
	return &Calculator{
		cat:   cat,
		order: cat.FormulaOrder(),
	}
}

// Catalog returns the catalog the calculator was built from.
func (c *Calculator) Catalog() *catalog.Catalog {
	return c.cat
}

// Recompute returns a copy of repo with every derived field brought up to
// date. repo itself is never modified, so callers see either the old
// state or the fully recomputed one.
func (c *Calculator) Recompute(repo *rules.Repository) *rules.Repository {
	out := repo.Clone()
	c.applyConditions(out)
	applyValidation(out)
	c.applyFormulas(out)
	return out
}

// applyConditions sets display and used from the raw values of the rules
// each definition depends on.
func (c *Calculator) applyConditions(repo *rules.Repository) {
	repo.Each(func(r *model.Rule) {
		def, ok := c.cat.Definition(r.Code)
		if !ok {
			return
		}
		r.Display = (def.Display == nil || *def.Display) && allTruthy(repo, def.DisplayWhen)
		r.Used = (def.Used == nil || *def.Used) && allTruthy(repo, def.UsedWhen)
	})
}

func allTruthy(repo *rules.Repository, codes []model.RuleCode) bool {
	for _, code := range codes {
		dep, ok := repo.Get(code)
		if !ok || !dep.Value.Truthy() {
			return false
		}
	}
	return true
}

// applyValidation recomputes validation errors. Hidden rules carry none.
func applyValidation(repo *rules.Repository) {
	repo.Each(func(r *model.Rule) {
		if !r.Display {
			r.ValidationErrors = nil
			return
		}
		r.ValidationErrors = Validate(r)
	})
}

func (c *Calculator) applyFormulas(repo *rules.Repository) {
	for _, code := range c.order {
		def, _ := c.cat.Definition(code)
		if !repo.Has(code) {
			continue
		}
		current, _ := repo.Get(code)
		v := c.evaluate(repo, &current, def)
		_ = repo.Update(code, func(r *model.Rule) {
			r.CalcValue = model.Float64(v)
		})
	}
}

func (c *Calculator) evaluate(repo *rules.Repository, self *model.Rule, def catalog.Definition) float64 {
	f := def.Formula
	switch f.Kind {
	case catalog.FormulaPoints:
		return strategyPoints(self, f.Points)

	case catalog.FormulaSum:
		cats := make(map[model.Category]bool, len(f.Categories))
		for _, cat := range f.Categories {
			cats[cat] = true
		}
		total := 0.0
		for _, r := range repo.Filter(func(r *model.Rule) bool {
			return r.Code != self.Code && cats[r.Category]
		}) {
			if r.Effective() && r.Valid() && r.CalcValue != nil {
				total += *r.CalcValue
			}
		}
		return total

	case catalog.FormulaRatio:
		num := input(repo, f.Numerator)
		den := input(repo, f.Denominator)
		if den == 0 {
			return 0
		}
		scale := f.Scale
		if scale == 0 {
			scale = 1
		}
		return num / den * scale

	case catalog.FormulaWeighted:
		total := 0.0
		for _, t := range f.Terms {
			total += t.Weight * input(repo, t.Code)
		}
		return total

	case catalog.FormulaBands:
		idx := 0
		for _, b := range f.Bands {
			if i := b.BandIndex(input(repo, b.Code)); i > idx {
				idx = i
			}
		}
		return f.Values[idx]

	case catalog.FormulaAll:
		if f.Package != "" && !c.packageAllowed(repo, f.Package) {
			return 0
		}
		for _, code := range f.Inputs {
			r, ok := repo.Get(code)
			if !ok || !r.Effective() || !r.Valid() {
				return 0
			}
		}
		return f.Points
	}

	slog.Warn("unknown formula kind", "code", def.Code, "kind", f.Kind)
	return 0
}

// input is the numeric contribution of a rule to a formula. Unused and
// invalid rules contribute nothing.
func input(repo *rules.Repository, code model.RuleCode) float64 {
	r, ok := repo.Get(code)
	if !ok || !r.Used || !r.Valid() {
		return 0
	}
	return r.Numeric()
}

func strategyPoints(r *model.Rule, points float64) float64 {
	if !r.Used || !r.Display || !r.Valid() {
		return 0
	}
	switch r.DataType {
	case model.DataTypeBoolean:
		if r.Value.Truthy() {
			return points
		}
	case model.DataTypeChoice:
		if choice, ok := r.Choice(); ok {
			return choice.Points
		}
	case model.DataTypeNumber:
		if n, ok := r.Value.Float(); ok {
			return n * points
		}
	}
	return 0
}

// ProjectLevel returns the computed project level.
func ProjectLevel(repo *rules.Repository) int {
	r, ok := repo.Get(model.CodeProjectLevel)
	if !ok {
		return 0
	}
	return int(r.Numeric())
}

// Eligibility reports which optional packages apply to a project.
type Eligibility struct {
	Residential bool
	Employment  bool
}

// Any reports whether at least one package applies.
func (e Eligibility) Any() bool {
	return e.Residential || e.Employment
}

// PackageEligibility evaluates the catalog packages against a recomputed
// repository. A package applies when the project is at the package level
// and one of its land uses is selected.
func (c *Calculator) PackageEligibility(repo *rules.Repository) Eligibility {
	return Eligibility{
		Residential: c.packageAllowed(repo, catalog.PackageResidential),
		Employment:  c.packageAllowed(repo, catalog.PackageEmployment),
	}
}

func (c *Calculator) packageAllowed(repo *rules.Repository, key string) bool {
	pkg, ok := c.cat.Packages[key]
	if !ok {
		return false
	}
	if ProjectLevel(repo) != pkg.Level {
		return false
	}
	for _, code := range pkg.LandUses {
		if r, ok := repo.Get(code); ok && r.Value.Truthy() {
			return true
		}
	}
	return false
}

// PackageSelected reports whether every member strategy of a package is
// selected.
func (c *Calculator) PackageSelected(repo *rules.Repository, key string) bool {
	pkg, ok := c.cat.Packages[key]
	if !ok {
		return false
	}
	for _, code := range pkg.Members {
		r, ok := repo.Get(code)
		if !ok || !r.Value.Truthy() {
			return false
		}
	}
	return true
}

// SelectPackage checks or unchecks every member strategy of a package and
// returns the recomputed repository.
func (c *Calculator) SelectPackage(repo *rules.Repository, key string, selected bool) (*rules.Repository, error) {
	pkg, ok := c.cat.Packages[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPackage, key)
	}
	if selected && !c.packageAllowed(repo, key) {
		return nil, fmt.Errorf("%w: %s", ErrPackageNotAllowed, key)
	}

	out := repo.Clone()
	for _, code := range append([]model.RuleCode{pkg.Rule}, pkg.Members...) {
		if err := out.SetValue(code, model.Bool(selected)); err != nil {
			return nil, err
		}
	}

	slog.Debug("package selection changed", "package", key, "selected", selected)
	return c.Recompute(out), nil
}

// UncheckAll clears every strategy and package selection.
func (c *Calculator) UncheckAll(repo *rules.Repository) *rules.Repository {
	out := repo.Clone()
	out.Each(func(r *model.Rule) {
		if r.Category != model.CategoryStrategy && r.Category != model.CategoryPackage {
			return
		}
		switch r.DataType {
		case model.DataTypeBoolean:
			r.Value = model.Bool(false)
		case model.DataTypeChoice:
			r.Value = model.String("0")
		default:
			r.Value = model.Absent()
		}
	})
	return c.Recompute(out)
}

// InitializeStrategies resets every strategy and package to its catalog
// default, dropping comments.
func (c *Calculator) InitializeStrategies(repo *rules.Repository) *rules.Repository {
	out := repo.Clone()
	out.Each(func(r *model.Rule) {
		if r.Category != model.CategoryStrategy && r.Category != model.CategoryPackage {
			return
		}
		if def, ok := c.cat.Definition(r.Code); ok {
			r.Value = def.DefaultValue()
			r.Comment = ""
		}
	})
	return c.Recompute(out)
}
