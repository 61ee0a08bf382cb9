package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tdm-calculator/internal/model"
)

func sampleRules() []model.Rule {
	return []model.Rule{
		{Code: model.CodeProjectName, Category: model.CategoryProjectDescription, DataType: model.DataTypeString, Display: true, Used: true},
		{Code: model.CodeLandUseResidential, Category: model.CategoryLandUse, DataType: model.DataTypeBoolean, CalculationPanelID: PanelLandUse, Display: true, Used: true},
		{Code: model.CodeUnitsHabitable, Category: model.CategoryInput, DataType: model.DataTypeNumber, Display: true, Used: true},
		{Code: model.CodeStrategyBikeParking, Category: model.CategoryStrategy, DataType: model.DataTypeBoolean, Display: true, Used: true},
		{Code: model.CodeProjectLevel, Category: model.CategoryResult, DataType: model.DataTypeNumber, Display: true, Used: true},
	}
}

func TestNew_RejectsBadCodes(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		rules   []model.Rule
	}{
		{
			name:    "empty code",
			rules:   []model.Rule{{Code: ""}},
			wantErr: ErrEmptyCode,
		},
		{
			name:    "duplicate code",
			rules:   []model.Rule{{Code: model.CodeAPN}, {Code: model.CodeAPN}},
			wantErr: ErrDuplicateCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.rules)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRepository_GetAndOrder(t *testing.T) {
	repo := MustNew(sampleRules())

	assert.Equal(t, 5, repo.Len())
	assert.True(t, repo.Has(model.CodeUnitsHabitable))
	assert.False(t, repo.Has(model.CodeAPN))

	codes := make([]model.RuleCode, 0, repo.Len())
	for _, r := range repo.Rules() {
		codes = append(codes, r.Code)
	}
	assert.Equal(t, []model.RuleCode{
		model.CodeProjectName,
		model.CodeLandUseResidential,
		model.CodeUnitsHabitable,
		model.CodeStrategyBikeParking,
		model.CodeProjectLevel,
	}, codes)
}

func TestRepository_ReturnsCopies(t *testing.T) {
	repo := MustNew(sampleRules())

	r, ok := repo.Get(model.CodeUnitsHabitable)
	require.True(t, ok)
	r.Value = model.Number(99)

	stored, _ := repo.Get(model.CodeUnitsHabitable)
	assert.True(t, stored.Value.IsAbsent())

	clone := repo.Clone()
	require.NoError(t, clone.SetValue(model.CodeUnitsHabitable, model.Number(10)))
	stored, _ = repo.Get(model.CodeUnitsHabitable)
	assert.True(t, stored.Value.IsAbsent())
}

func TestRepository_SetValueUnknown(t *testing.T) {
	repo := MustNew(sampleRules())
	assert.ErrorIs(t, repo.SetValue(model.CodeAPN, model.String("x")), ErrUnknownCode)
	assert.ErrorIs(t, repo.SetComment(model.CodeAPN, "x"), ErrUnknownCode)
}

func TestRepository_InputsRoundTrip(t *testing.T) {
	repo := MustNew(sampleRules())
	require.NoError(t, repo.SetValue(model.CodeProjectName, model.String("Exposition Lofts")))
	require.NoError(t, repo.SetValue(model.CodeUnitsHabitable, model.Number(30)))
	require.NoError(t, repo.SetComment(model.CodeStrategyBikeParking, "racks in lobby"))

	inputs := repo.Inputs()
	assert.Len(t, inputs, 3)
	assert.Equal(t, "racks in lobby", inputs[model.CodeStrategyBikeParking].Comment)

	inputs["OLD_RULE"] = model.Input{Value: model.Bool(true)}
	fresh := MustNew(sampleRules())
	unknown := fresh.ApplyInputs(inputs)

	assert.Equal(t, []model.RuleCode{"OLD_RULE"}, unknown)
	r, _ := fresh.Get(model.CodeUnitsHabitable)
	assert.Equal(t, model.Number(30), r.Value)
}

func TestFilters(t *testing.T) {
	rules := sampleRules()
	rules[1].Value = model.Bool(true)
	rules[2].Value = model.Number(30)
	rules[2].ValidationErrors = []model.ValidationError{{Code: model.ValidationAboveMax}}
	rules[3].Value = model.Bool(true)
	rules[3].CalcValue = model.Float64(2)
	repo := MustNew(rules)

	codes := func(pred Predicate) []model.RuleCode {
		var out []model.RuleCode
		for _, r := range repo.Filter(pred) {
			out = append(out, r.Code)
		}
		return out
	}

	assert.Equal(t, []model.RuleCode{model.CodeProjectName}, codes(ProjectDescription))
	assert.Equal(t, []model.RuleCode{model.CodeLandUseResidential, model.CodeUnitsHabitable}, codes(Or(LandUse, Specification)))
	assert.Equal(t, []model.RuleCode{model.CodeUnitsHabitable}, codes(Invalid))
	assert.Equal(t, []model.RuleCode{model.CodeStrategyBikeParking}, codes(SelectedMeasure))
	assert.Equal(t, []model.RuleCode{model.CodeLandUseResidential}, codes(SelectedLandUse))
	assert.Equal(t, []model.RuleCode{model.CodeUnitsHabitable}, codes(SummarySpecification))
	assert.Equal(t, []model.RuleCode{model.CodeProjectLevel}, codes(Result([]model.RuleCode{model.CodeProjectLevel, model.CodeAPN})))
	assert.Empty(t, codes(And(Strategy, Invalid)))
	assert.True(t, repo.Any(And(Specification, Invalid)))
}
