// Package catalog loads the rule definitions a project is built from:
// field metadata, defaults, display conditions and derived-value formulas.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/tdm-calculator/internal/model"
	"github.com/Veraticus/tdm-calculator/internal/rules"
)

//go:embed rules.yaml
var defaultCatalog []byte

// Catalog errors.
var (
	ErrInvalidCatalog = errors.New("invalid catalog")
	ErrCycle          = errors.New("formula dependency cycle")
)

// Package keys.
const (
	PackageResidential = "residential"
	PackageEmployment  = "employment"
)

// Definition describes one rule.
type Definition struct {
	Default         any              `yaml:"default"`
	Used            *bool            `yaml:"used"`
	Display         *bool            `yaml:"display"`
	MinValue        *float64         `yaml:"minValue"`
	MaxValue        *float64         `yaml:"maxValue"`
	MinStringLength *int             `yaml:"minStringLength"`
	MaxStringLength *int             `yaml:"maxStringLength"`
	Formula         *Formula         `yaml:"formula"`
	Code            model.RuleCode   `yaml:"code"`
	Name            string           `yaml:"name"`
	Category        model.Category   `yaml:"category"`
	DataType        model.DataType   `yaml:"dataType"`
	Units           string           `yaml:"units"`
	CalcUnits       string           `yaml:"calcUnits"`
	Choices         []model.Choice   `yaml:"choices"`
	DisplayWhen     []model.RuleCode `yaml:"displayWhen"`
	UsedWhen        []model.RuleCode `yaml:"usedWhen"`
	Panel           int              `yaml:"panel"`
	Required        bool             `yaml:"required"`
}

// Package is an optional grouping of strategies offered on its own page.
type Package struct {
	Rule     model.RuleCode   `yaml:"rule"`
	Name     string           `yaml:"name"`
	LandUses []model.RuleCode `yaml:"landUses"`
	Members  []model.RuleCode `yaml:"members"`
	Level    int              `yaml:"level"`
}

// Catalog is a validated set of rule definitions.
type Catalog struct {
	Packages map[string]Package `yaml:"packages"`
	byCode   map[model.RuleCode]int
	Version  string       `yaml:"version"`
	Rules    []Definition `yaml:"rules"`
	order    []model.RuleCode
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// MustDefault returns the embedded catalog and panics if it is invalid.
func MustDefault() *Catalog {
	cat, err := Default()
	if err != nil {
		panic(err)
	}
	return cat
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := cat.validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Definition returns the definition for code.
func (c *Catalog) Definition(code model.RuleCode) (Definition, bool) {
	i, ok := c.byCode[code]
	if !ok {
		return Definition{}, false
	}
	return c.Rules[i], true
}

// FormulaOrder returns the codes of computed rules, dependencies first.
func (c *Catalog) FormulaOrder() []model.RuleCode {
	return append([]model.RuleCode(nil), c.order...)
}

// NewRepository builds a fresh repository with every rule at its default.
func (c *Catalog) NewRepository() *rules.Repository {
	out := make([]model.Rule, 0, len(c.Rules))
	for _, d := range c.Rules {
		out = append(out, d.newRule())
	}
	// Codes were checked for uniqueness in validate.
	return rules.MustNew(out)
}

// DefaultValue returns the catalog default of a rule.
func (d Definition) DefaultValue() model.Value {
	v, err := model.ValueOf(d.Default)
	if err != nil {
		return model.Absent()
	}
	return v
}

func (d Definition) newRule() model.Rule {
	r := model.Rule{
		Code:               d.Code,
		Name:               d.Name,
		Category:           d.Category,
		CalculationPanelID: d.Panel,
		DataType:           d.DataType,
		Value:              d.DefaultValue(),
		Units:              d.Units,
		CalcUnits:          d.CalcUnits,
		Choices:            append([]model.Choice(nil), d.Choices...),
		Used:               d.Used == nil || *d.Used,
		Display:            d.Display == nil || *d.Display,
		Required:           d.Required,
		MinValue:           d.MinValue,
		MaxValue:           d.MaxValue,
		MinStringLength:    d.MinStringLength,
		MaxStringLength:    d.MaxStringLength,
	}
	if d.Formula != nil {
		r.CalcValue = model.Float64(0)
	}
	return r.Clone()
}

func (c *Catalog) validate() error {
	if len(c.Rules) == 0 {
		return fmt.Errorf("%w: no rules", ErrInvalidCatalog)
	}

	c.byCode = make(map[model.RuleCode]int, len(c.Rules))
	for i, d := range c.Rules {
		if !d.Code.Known() {
			return fmt.Errorf("%w: %q is not a known rule code", ErrInvalidCatalog, d.Code)
		}
		if _, dup := c.byCode[d.Code]; dup {
			return fmt.Errorf("%w: %w: %s", ErrInvalidCatalog, rules.ErrDuplicateCode, d.Code)
		}
		if !d.Category.Valid() {
			return fmt.Errorf("%w: %s has unknown category %q", ErrInvalidCatalog, d.Code, d.Category)
		}
		if !d.DataType.Valid() {
			return fmt.Errorf("%w: %s has unknown data type %q", ErrInvalidCatalog, d.Code, d.DataType)
		}
		if _, err := model.ValueOf(d.Default); err != nil {
			return fmt.Errorf("%w: %s default: %w", ErrInvalidCatalog, d.Code, err)
		}
		if d.DataType == model.DataTypeChoice && len(d.Choices) == 0 {
			return fmt.Errorf("%w: %s is a choice rule without choices", ErrInvalidCatalog, d.Code)
		}
		c.byCode[d.Code] = i
	}

	for _, d := range c.Rules {
		for _, ref := range append(append([]model.RuleCode(nil), d.DisplayWhen...), d.UsedWhen...) {
			if _, ok := c.byCode[ref]; !ok {
				return fmt.Errorf("%w: %s depends on undefined rule %s", ErrInvalidCatalog, d.Code, ref)
			}
		}
		if d.Formula == nil {
			continue
		}
		if err := d.Formula.validate(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidCatalog, d.Code, err)
		}
		if key := d.Formula.Package; key != "" {
			if _, ok := c.Packages[key]; !ok || d.Formula.Kind != FormulaAll {
				return fmt.Errorf("%w: %s formula names package %q", ErrInvalidCatalog, d.Code, key)
			}
		}
		for _, ref := range c.dependencies(d) {
			if _, ok := c.byCode[ref]; !ok {
				return fmt.Errorf("%w: %s formula references undefined rule %s", ErrInvalidCatalog, d.Code, ref)
			}
		}
	}

	for key, p := range c.Packages {
		if _, ok := c.byCode[p.Rule]; !ok {
			return fmt.Errorf("%w: package %s rule %s is undefined", ErrInvalidCatalog, key, p.Rule)
		}
		for _, ref := range append(append([]model.RuleCode(nil), p.Members...), p.LandUses...) {
			if _, ok := c.byCode[ref]; !ok {
				return fmt.Errorf("%w: package %s references undefined rule %s", ErrInvalidCatalog, key, ref)
			}
		}
	}

	order, err := c.sortFormulas()
	if err != nil {
		return err
	}
	c.order = order
	return nil
}

// dependencies lists the rules a formula reads, excluding the rule itself.
func (c *Catalog) dependencies(d Definition) []model.RuleCode {
	f := d.Formula
	var deps []model.RuleCode
	switch f.Kind {
	case FormulaSum:
		cats := make(map[model.Category]bool, len(f.Categories))
		for _, cat := range f.Categories {
			cats[cat] = true
		}
		for _, other := range c.Rules {
			if other.Code != d.Code && cats[other.Category] {
				deps = append(deps, other.Code)
			}
		}
	case FormulaRatio:
		deps = append(deps, f.Numerator, f.Denominator)
	case FormulaWeighted:
		for _, t := range f.Terms {
			deps = append(deps, t.Code)
		}
	case FormulaBands:
		for _, b := range f.Bands {
			deps = append(deps, b.Code)
		}
	case FormulaAll:
		deps = append(deps, f.Inputs...)
		if pkg, ok := c.Packages[f.Package]; ok {
			deps = append(deps, model.CodeProjectLevel)
			deps = append(deps, pkg.LandUses...)
		}
	}
	return deps
}

// sortFormulas orders computed rules so every formula runs after the
// formulas it reads. Ties keep catalog order.
func (c *Catalog) sortFormulas() ([]model.RuleCode, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[model.RuleCode]int)
	var order []model.RuleCode

	var visit func(code model.RuleCode, path []model.RuleCode) error
	visit = func(code model.RuleCode, path []model.RuleCode) error {
		d := c.Rules[c.byCode[code]]
		if d.Formula == nil {
			return nil
		}
		switch state[code] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %v", ErrCycle, append(path, code))
		}
		state[code] = visiting
		for _, dep := range c.dependencies(d) {
			if err := visit(dep, append(path, code)); err != nil {
				return err
			}
		}
		state[code] = done
		order = append(order, code)
		return nil
	}

	for _, d := range c.Rules {
		if err := visit(d.Code, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// Codes returns every defined code in catalog order.
func (c *Catalog) Codes() []model.RuleCode {
	out := make([]model.RuleCode, 0, len(c.Rules))
	for _, d := range c.Rules {
		out = append(out, d.Code)
	}
	return out
}

// PackageKeys returns the package keys in sorted order.
func (c *Catalog) PackageKeys() []string {
	keys := make([]string, 0, len(c.Packages))
	for k := range c.Packages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
