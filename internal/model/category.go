package model

// Category determines which page filters select a rule.
type Category string

const (
	// CategoryProjectDescription holds project identification fields.
	CategoryProjectDescription Category = "project-description"
	// CategoryLandUse holds the land use checkboxes.
	CategoryLandUse Category = "land-use"
	// CategoryInput holds project specification inputs.
	CategoryInput Category = "input"
	// CategoryMeasure holds measures summarized on the results page.
	CategoryMeasure Category = "measure"
	// CategoryTargetPoint holds the target point breakdown.
	CategoryTargetPoint Category = "target-point"
	// CategoryStrategy holds the selectable TDM strategies.
	CategoryStrategy Category = "strategy"
	// CategoryResult holds the headline results shown in the sidebar.
	CategoryResult Category = "result"
	// CategoryPackage holds the residential and employment package toggles.
	CategoryPackage Category = "package"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryProjectDescription,
		CategoryLandUse,
		CategoryInput,
		CategoryMeasure,
		CategoryTargetPoint,
		CategoryStrategy,
		CategoryResult,
		CategoryPackage:
		return true
	}
	return false
}

// DataType describes how a rule's value is entered and interpreted.
type DataType string

const (
	// DataTypeBoolean is a checkbox.
	DataTypeBoolean DataType = "boolean"
	// DataTypeNumber is a numeric input.
	DataTypeNumber DataType = "number"
	// DataTypeChoice is a selection from Choices.
	DataTypeChoice DataType = "choice"
	// DataTypeString is a single-line text input.
	DataTypeString DataType = "string"
	// DataTypeTextarea is free text.
	DataTypeTextarea DataType = "textarea"
)

// Valid reports whether d is one of the known data types.
func (d DataType) Valid() bool {
	switch d {
	case DataTypeBoolean, DataTypeNumber, DataTypeChoice, DataTypeString, DataTypeTextarea:
		return true
	}
	return false
}
