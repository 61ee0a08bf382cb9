package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tdm-calculator/internal/model"
	"github.com/Veraticus/tdm-calculator/internal/rules"
)

func TestDefault(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	assert.NotEmpty(t, cat.Version)
	assert.Equal(t, []string{PackageEmployment, PackageResidential}, cat.PackageKeys())

	def, ok := cat.Definition(model.CodeStrategyBikeParking)
	require.True(t, ok)
	assert.Equal(t, model.CategoryStrategy, def.Category)
	require.NotNil(t, def.Formula)
	assert.Equal(t, FormulaPoints, def.Formula.Kind)

	_, ok = cat.Definition("NOT_A_RULE")
	assert.False(t, ok)
}

func TestFormulaOrder_DependenciesFirst(t *testing.T) {
	cat := MustDefault()
	order := cat.FormulaOrder()
	require.NotEmpty(t, order)

	position := make(map[model.RuleCode]int, len(order))
	for i, code := range order {
		position[code] = i
	}
	for _, code := range order {
		def, _ := cat.Definition(code)
		for _, dep := range cat.dependencies(def) {
			depDef, _ := cat.Definition(dep)
			if depDef.Formula == nil {
				continue
			}
			assert.Less(t, position[dep], position[code], "%s must run before %s", dep, code)
		}
	}
	assert.Equal(t, model.CodePointsEarned, order[len(order)-1])
	assert.Less(t, position[model.CodeProjectLevel], position[model.CodePackageResidential])
	assert.Less(t, position[model.CodeProjectLevel], position[model.CodePackageEmployment])
}

func TestNewRepository_Defaults(t *testing.T) {
	cat := MustDefault()
	repo := cat.NewRepository()

	assert.Equal(t, len(cat.Rules), repo.Len())

	r, ok := repo.Get(model.CodeStrategyCarShare)
	require.True(t, ok)
	assert.Equal(t, model.String("0"), r.Value)
	assert.True(t, r.HasCalcValue())

	r, ok = repo.Get(model.CodeProjectName)
	require.True(t, ok)
	assert.True(t, r.Value.IsAbsent())
	assert.False(t, r.HasCalcValue())
	assert.True(t, r.Required)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		yaml    string
	}{
		{
			name:    "no rules",
			yaml:    "version: x\nrules: []\n",
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "unknown code",
			yaml: `rules:
  - {code: NOT_A_RULE, name: X, category: input, dataType: number}
`,
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "duplicate code",
			yaml: `rules:
  - {code: APN, name: A, category: project-description, dataType: string}
  - {code: APN, name: B, category: project-description, dataType: string}
`,
			wantErr: rules.ErrDuplicateCode,
		},
		{
			name: "unknown data type",
			yaml: `rules:
  - {code: APN, name: A, category: project-description, dataType: date}
`,
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "choice without choices",
			yaml: `rules:
  - {code: STRATEGY_CAR_SHARE, name: A, category: strategy, dataType: choice}
`,
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "undefined display condition",
			yaml: `rules:
  - {code: SF_RETAIL, name: A, category: input, dataType: number, displayWhen: [LAND_USE_RETAIL]}
`,
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "band thresholds do not match values",
			yaml: `rules:
  - {code: UNITS_HABIT, name: U, category: input, dataType: number}
  - code: PROJECT_LEVEL
    name: L
    category: result
    dataType: number
    formula: {kind: bands, values: [0, 1], bands: [{code: UNITS_HABIT, thresholds: [16, 50]}]}
`,
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "formula cycle",
			yaml: `rules:
  - code: PROJECT_LEVEL
    name: L
    category: result
    dataType: number
    formula: {kind: ratio, numerator: CALC_PARK_RATIO, denominator: CALC_PARK_RATIO}
  - code: CALC_PARK_RATIO
    name: R
    category: result
    dataType: number
    formula: {kind: ratio, numerator: PROJECT_LEVEL, denominator: PROJECT_LEVEL}
`,
			wantErr: ErrCycle,
		},
		{
			name: "package with undefined member",
			yaml: `rules:
  - {code: PKG_RESIDENTIAL, name: P, category: package, dataType: boolean}
packages:
  residential: {rule: PKG_RESIDENTIAL, members: [STRATEGY_INFO]}
`,
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "formula names undefined package",
			yaml: `rules:
  - {code: STRATEGY_INFO, name: I, category: strategy, dataType: boolean}
  - code: PKG_RESIDENTIAL
    name: P
    category: package
    dataType: boolean
    formula: {kind: all, package: transit, points: 1, inputs: [STRATEGY_INFO]}
`,
			wantErr: ErrInvalidCatalog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, defaultCatalog, 0o600))

	cat, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, len(MustDefault().Rules), len(cat.Rules))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestBandIndex(t *testing.T) {
	b := Band{Code: model.CodeUnitsHabitable, Thresholds: []float64{16, 50, 200}}

	tests := []struct {
		value float64
		want  int
	}{
		{value: 0, want: 0},
		{value: 15.9, want: 0},
		{value: 16, want: 1},
		{value: 120, want: 2},
		{value: 200, want: 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.BandIndex(tt.value), "value %v", tt.value)
	}
}
