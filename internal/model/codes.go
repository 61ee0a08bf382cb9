package model

// RuleCode identifies a rule. Codes never change once a project exists.
type RuleCode string

// Project description.
const (
	CodeProjectName        RuleCode = "PROJECT_NAME"
	CodeProjectAddress     RuleCode = "PROJECT_ADDRESS"
	CodeProjectDescription RuleCode = "PROJECT_DESCRIPTION"
	CodeAPN                RuleCode = "APN"
	CodeBuildingPermit     RuleCode = "BUILDING_PERMIT"
	CodeCaseNoLADOT        RuleCode = "CASE_NO_LADOT"
	CodeCaseNoPlanning     RuleCode = "CASE_NO_PLANNING"
	CodeVersionNo          RuleCode = "VERSION_NO"
)

// Land uses.
const (
	CodeLandUseResidential RuleCode = "LAND_USE_RESIDENTIAL"
	CodeLandUseRetail      RuleCode = "LAND_USE_RETAIL"
	CodeLandUseCommercial  RuleCode = "LAND_USE_COMMERCIAL"
	CodeLandUseHotel       RuleCode = "LAND_USE_HOTEL"
	CodeLandUseSchool      RuleCode = "LAND_USE_SCHOOL"
)

// Specification inputs.
const (
	CodeUnitsHabitable RuleCode = "UNITS_HABIT"
	CodeSFRetail       RuleCode = "SF_RETAIL"
	CodeSFOffice       RuleCode = "SF_OFFICE"
	CodeHotelRooms     RuleCode = "HOTEL_ROOMS"
	CodeStudents       RuleCode = "STUDENTS"
	CodeParkSpaces     RuleCode = "PARK_SPACES"
	CodeParkRequired   RuleCode = "PARK_REQUIREMENT"
)

// Results and targets.
const (
	CodeProjectLevel      RuleCode = "PROJECT_LEVEL"
	CodeParkRatio         RuleCode = "CALC_PARK_RATIO"
	CodeTargetPointsLevel RuleCode = "TARGET_POINTS_LEVEL"
	CodeTargetPointsRatio RuleCode = "TARGET_POINTS_PARK_RATIO"
	CodeTargetPointsPark  RuleCode = "TARGET_POINTS_PARK"
	CodePointsEarned      RuleCode = "PTS_EARNED"
)

// Strategies and packages.
const (
	CodeStrategyBikeParking RuleCode = "STRATEGY_BIKE_PARKING"
	CodeStrategyCarShare    RuleCode = "STRATEGY_CAR_SHARE"
	CodeStrategyTransitPass RuleCode = "STRATEGY_TRANSIT_PASSES"
	CodeStrategyCashOut     RuleCode = "STRATEGY_PARKING_CASH_OUT"
	CodeStrategyUnbundle    RuleCode = "STRATEGY_UNBUNDLE"
	CodeStrategyInfo        RuleCode = "STRATEGY_INFO"
	CodeStrategyHOV         RuleCode = "STRATEGY_HOV"
	CodeStrategyApplicant   RuleCode = "STRATEGY_APPLICANT"
	CodePackageResidential  RuleCode = "PKG_RESIDENTIAL"
	CodePackageEmployment   RuleCode = "PKG_COMMERCIAL"
)

var knownCodes = map[RuleCode]struct{}{
	CodeProjectName:         {},
	CodeProjectAddress:      {},
	CodeProjectDescription:  {},
	CodeAPN:                 {},
	CodeBuildingPermit:      {},
	CodeCaseNoLADOT:         {},
	CodeCaseNoPlanning:      {},
	CodeVersionNo:           {},
	CodeLandUseResidential:  {},
	CodeLandUseRetail:       {},
	CodeLandUseCommercial:   {},
	CodeLandUseHotel:        {},
	CodeLandUseSchool:       {},
	CodeUnitsHabitable:      {},
	CodeSFRetail:            {},
	CodeSFOffice:            {},
	CodeHotelRooms:          {},
	CodeStudents:            {},
	CodeParkSpaces:          {},
	CodeParkRequired:        {},
	CodeProjectLevel:        {},
	CodeParkRatio:           {},
	CodeTargetPointsLevel:   {},
	CodeTargetPointsRatio:   {},
	CodeTargetPointsPark:    {},
	CodePointsEarned:        {},
	CodeStrategyBikeParking: {},
	CodeStrategyCarShare:    {},
	CodeStrategyTransitPass: {},
	CodeStrategyCashOut:     {},
	CodeStrategyUnbundle:    {},
	CodeStrategyInfo:        {},
	CodeStrategyHOV:         {},
	CodeStrategyApplicant:   {},
	CodePackageResidential:  {},
	CodePackageEmployment:   {},
}

// Known reports whether c is a code the application understands.
func (c RuleCode) Known() bool {
	_, ok := knownCodes[c]
	return ok
}

// DefaultResultCodes are the rules shown as results when no configuration
// overrides them.
func DefaultResultCodes() []RuleCode {
	return []RuleCode{
		CodeProjectLevel,
		CodeParkRatio,
		CodeTargetPointsPark,
		CodePointsEarned,
	}
}
