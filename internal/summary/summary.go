// Package summary builds the project summary shown on the last wizard page
// and by the CLI. It is the only place summary listings are filtered.
package summary

import (
	"strings"

	"github.com/Veraticus/tdm-calculator/internal/format"
	"github.com/Veraticus/tdm-calculator/internal/model"
	"github.com/Veraticus/tdm-calculator/internal/rules"
)

// Line is one labelled row of the summary.
type Line struct {
	Code  model.RuleCode
	Name  string
	Value string
	Units string
}

// ProjectInfo identifies the project.
type ProjectInfo struct {
	Name           string
	Address        string
	ParcelNumber   string
	BuildingPermit string
	VersionNumber  string
	CasePlanning   string
	CaseLADOT      string
}

// Summary is the rendered-ready view of a recomputed repository.
type Summary struct {
	Info                ProjectInfo
	LandUses            string
	UserDefinedStrategy string
	Description         string
	ParkingProvided     string
	ParkingRequired     string
	ParkingRatio        string
	Level               string
	Measures            []Line
	Specifications      []Line
	Results             []Line
	EarnedPoints        int
	TargetPoints        int
	TargetReached       bool
	Loading             bool
}

// Build summarizes repo. resultCodes selects the rules listed as results.
func Build(repo *rules.Repository, resultCodes []model.RuleCode) Summary {
	if repo.Len() == 0 {
		return Summary{Loading: true}
	}

	s := Summary{
		Info: ProjectInfo{
			Name:           text(repo, model.CodeProjectName),
			Address:        text(repo, model.CodeProjectAddress),
			ParcelNumber:   text(repo, model.CodeAPN),
			BuildingPermit: text(repo, model.CodeBuildingPermit),
			VersionNumber:  text(repo, model.CodeVersionNo),
			CasePlanning:   text(repo, model.CodeCaseNoPlanning),
			CaseLADOT:      text(repo, model.CodeCaseNoLADOT),
		},
		Description: text(repo, model.CodeProjectDescription),
	}

	earned, hasEarned := repo.Get(model.CodePointsEarned)
	target, _ := repo.Get(model.CodeTargetPointsPark)
	s.EarnedPoints = format.Integer(earned.Numeric())
	s.TargetPoints = format.Integer(target.Numeric())
	s.TargetReached = hasEarned && s.EarnedPoints >= s.TargetPoints

	if level, ok := repo.Get(model.CodeProjectLevel); ok {
		s.Level = format.Number(level.Numeric())
	}

	for _, r := range repo.Filter(rules.SelectedMeasure) {
		s.Measures = append(s.Measures, Line{
			Code:  r.Code,
			Name:  r.Name,
			Value: measureDetail(r),
			Units: r.CalcUnits,
		})
	}

	if applicant, ok := repo.Get(model.CodeStrategyApplicant); ok {
		if applicant.CalcValue != nil && *applicant.CalcValue != 0 && applicant.Comment != "" {
			s.UserDefinedStrategy = applicant.Comment
		}
	}

	var landUses []string
	for _, r := range repo.Filter(rules.SelectedLandUse) {
		landUses = append(landUses, r.Name)
	}
	s.LandUses = strings.Join(landUses, ", ")

	for _, r := range repo.Filter(rules.SummarySpecification) {
		s.Specifications = append(s.Specifications, Line{
			Code:  r.Code,
			Name:  r.Name,
			Value: format.Value(r),
			Units: r.Units,
		})
	}

	if r, ok := repo.Get(model.CodeParkSpaces); ok {
		s.ParkingProvided = format.Number(r.Numeric())
	}
	if r, ok := repo.Get(model.CodeParkRequired); ok {
		s.ParkingRequired = format.Number(r.Numeric())
	}
	if r, ok := repo.Get(model.CodeParkRatio); ok {
		s.ParkingRatio = format.Percent(r.Numeric())
	}

	for _, r := range repo.Filter(rules.Result(resultCodes)) {
		s.Results = append(s.Results, Line{
			Code:  r.Code,
			Name:  r.Name,
			Value: resultValue(r),
			Units: r.CalcUnits,
		})
	}

	return s
}

// PointsMessage is the sentence shown under the results.
func (s Summary) PointsMessage() string {
	if s.TargetReached {
		return "Earned points successfully meet the target points."
	}
	return "Earned points do not yet meet the target points."
}

func text(repo *rules.Repository, code model.RuleCode) string {
	r, ok := repo.Get(code)
	if !ok {
		return ""
	}
	return r.Value.String()
}

func measureDetail(r model.Rule) string {
	if r.CalcValue != nil {
		return format.Number(*r.CalcValue)
	}
	return format.Value(r)
}

func resultValue(r model.Rule) string {
	if r.CalcUnits == "%" {
		return format.Percent(r.Numeric())
	}
	return format.Number(r.Numeric())
}
