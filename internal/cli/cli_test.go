package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tdm-calculator/internal/faq"
	"github.com/Veraticus/tdm-calculator/internal/model"
	"github.com/Veraticus/tdm-calculator/internal/summary"
)

func TestRenderSummary(t *testing.T) {
	s := summary.Summary{
		Info:                summary.ProjectInfo{Name: "Exposition Lofts", Address: "1020 W Exposition Blvd"},
		LandUses:            "Residential, Retail",
		UserDefinedStrategy: "Shuttle to the Expo line",
		EarnedPoints:        42,
		TargetPoints:        40,
		TargetReached:       true,
		Measures: []summary.Line{
			{Code: model.CodeStrategyBikeParking, Name: "Bicycle Parking", Value: "2", Units: "points"},
		},
		ParkingProvided: "120",
		ParkingRequired: "100",
		ParkingRatio:    "120",
	}

	out := RenderSummary(s)
	assert.Contains(t, out, "Exposition Lofts")
	assert.Contains(t, out, "Residential, Retail")
	assert.Contains(t, out, "Earned 42 / Target 40")
	assert.Contains(t, out, "Earned points successfully meet the target points.")
	assert.Contains(t, out, "Bicycle Parking")
	assert.Contains(t, out, "Shuttle to the Expo line")
	assert.Contains(t, out, "120%")
}

func TestRenderSummary_Loading(t *testing.T) {
	assert.Contains(t, RenderSummary(summary.Summary{Loading: true}), "Loading")
}

func TestRenderBoard(t *testing.T) {
	board := faq.NewBoard([]model.FaqCategory{
		{ID: 3, Name: "Points", Faqs: []model.Faq{
			{ID: 8, CategoryID: 3, Question: "How many?", Answer: "Enough.", Expanded: true},
			{ID: 9, CategoryID: 3, Question: "Why?", Answer: "Hidden answer"},
		}},
	})

	out := RenderBoard(board, false)
	assert.Contains(t, out, "How many?")
	assert.Contains(t, out, "Enough.")
	assert.NotContains(t, out, "Hidden answer")

	admin := RenderBoard(board, true)
	assert.Contains(t, admin, "[3] Points")
	assert.Contains(t, admin, "1. [9] Why?")
}

func TestRenderRules_ShowsValidation(t *testing.T) {
	out := RenderRules([]model.Rule{{
		Code:             model.CodeUnitsHabitable,
		Name:             "Residential Dwelling Units",
		DataType:         model.DataTypeNumber,
		ValidationErrors: []model.ValidationError{{Code: model.ValidationRequired, Message: "Required"}},
	}})
	assert.Contains(t, out, "UNITS_HABIT")
	assert.Contains(t, out, "Required")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Yes\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := Confirm(context.Background(), strings.NewReader(tt.input), &out, "Delete project?")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Contains(t, out.String(), "Delete project? [y/N]")
	}
}

func TestConfirm_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, w := io.Pipe()
	defer func() { _ = w.Close() }()

	_, err := Confirm(ctx, r, io.Discard, "Continue?")
	require.ErrorIs(t, err, ErrInputCancelled)
}

func TestBatch(t *testing.T) {
	var out bytes.Buffer
	b := NewBatch(&out, 3, "Recalculating")
	b.Step(nil)
	b.Step(errors.New("boom"))
	b.Step(nil)
	b.Finish(false)

	done, failed := b.Done()
	assert.Equal(t, 3, done)
	assert.Equal(t, 1, failed)
	assert.Contains(t, out.String(), "1 of 3 failed")
}
