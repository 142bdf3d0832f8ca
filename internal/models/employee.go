package models

import "strconv"

// EmployeeRecord holds the attributes of a single employee as entered in the form.
// The validate tags mirror the bounds of the form controls.
type EmployeeRecord struct {
	Age            int     `json:"age" form:"age" validate:"min=18,max=90"`
	Workclass      string  `json:"workclass" form:"workclass" validate:"category"`
	Fnlwgt         float64 `json:"fnlwgt" form:"fnlwgt"`
	Education      string  `json:"education" form:"education" validate:"category"`
	EducationalNum int     `json:"educational-num" form:"educational-num" validate:"min=1,max=16"`
	MaritalStatus  string  `json:"marital-status" form:"marital-status" validate:"category"`
	Occupation     string  `json:"occupation" form:"occupation" validate:"category"`
	Relationship   string  `json:"relationship" form:"relationship" validate:"category"`
	Race           string  `json:"race" form:"race" validate:"category"`
	Gender         string  `json:"gender" form:"gender" validate:"category"`
	CapitalGain    float64 `json:"capital-gain" form:"capital-gain"`
	CapitalLoss    float64 `json:"capital-loss" form:"capital-loss"`
	HoursPerWeek   int     `json:"hours-per-week" form:"hours-per-week" validate:"min=1,max=99"`
	NativeCountry  string  `json:"native-country" form:"native-country" validate:"category"`
	Experience     int     `json:"experience" form:"experience" validate:"min=0,max=40"`
}

// DefaultEmployeeRecord returns the values the form starts with.
func DefaultEmployeeRecord() EmployeeRecord {
	return EmployeeRecord{
		Age:            30,
		Workclass:      WorkclassOptions[0],
		Fnlwgt:         123456,
		Education:      EducationOptions[0],
		EducationalNum: 13,
		MaritalStatus:  MaritalStatusOptions[0],
		Occupation:     OccupationOptions[0],
		Relationship:   RelationshipOptions[0],
		Race:           RaceOptions[0],
		Gender:         GenderOptions[0],
		CapitalGain:    0,
		CapitalLoss:    0,
		HoursPerWeek:   40,
		NativeCountry:  NativeCountryOptions[0],
		Experience:     5,
	}
}

// FeatureRow converts the record into model input.
func (r EmployeeRecord) FeatureRow() FeatureRow {
	row := NewFeatureRow()
	row.Numeric[ColumnAge] = float64(r.Age)
	row.Numeric[ColumnFnlwgt] = r.Fnlwgt
	row.Numeric[ColumnEducationalNum] = float64(r.EducationalNum)
	row.Numeric[ColumnCapitalGain] = r.CapitalGain
	row.Numeric[ColumnCapitalLoss] = r.CapitalLoss
	row.Numeric[ColumnHoursPerWeek] = float64(r.HoursPerWeek)
	row.Numeric[ColumnExperience] = float64(r.Experience)

	row.Categorical[ColumnWorkclass] = r.Workclass
	row.Categorical[ColumnEducation] = r.Education
	row.Categorical[ColumnMaritalStatus] = r.MaritalStatus
	row.Categorical[ColumnOccupation] = r.Occupation
	row.Categorical[ColumnRelationship] = r.Relationship
	row.Categorical[ColumnRace] = r.Race
	row.Categorical[ColumnGender] = r.Gender
	row.Categorical[ColumnNativeCountry] = r.NativeCountry
	return row
}

// Cells renders the record as one table row following the schema column order.
func (r EmployeeRecord) Cells(schema Schema) []string {
	row := r.FeatureRow()
	cells := make([]string, len(schema))
	for i, f := range schema {
		if f.Kind == FieldKindCategorical {
			cells[i] = row.Categorical[f.Name]
			continue
		}
		cells[i] = strconv.FormatFloat(row.Numeric[f.Name], 'f', -1, 64)
	}
	return cells
}

// Summary returns the one-row input preview shown next to the form.
func (r EmployeeRecord) Summary(schema Schema) TablePreview {
	return TablePreview{
		Columns:   schema.Columns(),
		Rows:      [][]string{r.Cells(schema)},
		TotalRows: 1,
	}
}
