package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		want     Value
		name     string
		dataType DataType
		raw      string
	}{
		{name: "blank is absent", dataType: DataTypeNumber, raw: "  ", want: Absent()},
		{name: "number", dataType: DataTypeNumber, raw: "120", want: Number(120)},
		{name: "number with commas", dataType: DataTypeNumber, raw: "12,500.5", want: Number(12500.5)},
		{name: "bad number kept as text", dataType: DataTypeNumber, raw: "lots", want: String("lots")},
		{name: "boolean yes", dataType: DataTypeBoolean, raw: "Yes", want: Bool(true)},
		{name: "boolean x", dataType: DataTypeBoolean, raw: "x", want: Bool(true)},
		{name: "boolean off", dataType: DataTypeBoolean, raw: "off", want: Bool(false)},
		{name: "boolean unknown kept as text", dataType: DataTypeBoolean, raw: "maybe", want: String("maybe")},
		{name: "choice stays text", dataType: DataTypeChoice, raw: "2", want: String("2")},
		{name: "string trimmed", dataType: DataTypeString, raw: " Lofts ", want: String("Lofts")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseValue(tt.dataType, tt.raw))
		})
	}
}

func TestValue_Truthy(t *testing.T) {
	tests := []struct {
		name      string
		value     Value
		truthy    bool
		effective bool
	}{
		{name: "absent", value: Absent()},
		{name: "false", value: Bool(false)},
		{name: "true", value: Bool(true), truthy: true, effective: true},
		{name: "zero", value: Number(0)},
		{name: "NaN", value: Number(math.NaN())},
		{name: "number", value: Number(3), truthy: true, effective: true},
		{name: "empty string", value: String("")},
		{name: "string zero is not applicable", value: String("0"), truthy: true},
		{name: "string", value: String("1"), truthy: true, effective: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.truthy, tt.value.Truthy())
			assert.Equal(t, tt.effective, tt.value.Effective())
		})
	}
}

func TestValue_Float(t *testing.T) {
	n, ok := Bool(true).Float()
	assert.True(t, ok)
	assert.InDelta(t, 1, n, 0)

	n, ok = String(" 42.5 ").Float()
	assert.True(t, ok)
	assert.InDelta(t, 42.5, n, 0)

	_, ok = String("abc").Float()
	assert.False(t, ok)

	_, ok = Absent().Float()
	assert.False(t, ok)
}

func TestValue_JSON(t *testing.T) {
	in := map[RuleCode]Input{
		CodeProjectName:        {Value: String("Exposition Lofts"), Comment: "phase 1"},
		CodeUnitsHabitable:     {Value: Number(120)},
		CodeLandUseResidential: {Value: Bool(true)},
		CodeParkSpaces:         {Value: Absent()},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"PARK_SPACES":{"value":null}`)

	var out map[RuleCode]Input
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestValueOf_Unsupported(t *testing.T) {
	_, err := ValueOf([]int{1})
	assert.Error(t, err)
}

func TestAccount_CanEdit(t *testing.T) {
	tests := []struct {
		account *Account
		name    string
		owner   int
		want    bool
	}{
		{name: "nil account", account: nil, owner: 1},
		{name: "signed out", account: &Account{}, owner: 0},
		{name: "owner", account: &Account{ID: 5}, owner: 5, want: true},
		{name: "other user", account: &Account{ID: 6}, owner: 5},
		{name: "admin", account: &Account{ID: 1, IsAdmin: true}, owner: 5, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.account.CanEdit(tt.owner))
		})
	}
}

func TestRule_CloneIsDeep(t *testing.T) {
	r := Rule{
		Code:      CodeStrategyCarShare,
		CalcValue: Float64(3),
		Choices:   []Choice{{ID: "1", Name: "Car share", Points: 3}},
		Value:     String("1"),
	}

	c := r.Clone()
	*c.CalcValue = 5
	c.Choices[0].Points = 9

	assert.InDelta(t, 3, *r.CalcValue, 0)
	assert.InDelta(t, 3, r.Choices[0].Points, 0)

	choice, ok := r.Choice()
	require.True(t, ok)
	assert.Equal(t, "Car share", choice.Name)
}
