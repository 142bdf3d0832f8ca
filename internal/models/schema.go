// Package models contains domain types for the Employee Salary Predictor.
package models

// FieldKind distinguishes numeric model columns from categorical ones.
type FieldKind string

const (
	FieldKindNumeric     FieldKind = "numeric"
	FieldKindCategorical FieldKind = "categorical"
)

// ControlType is the input control the page renders for a field.
type ControlType string

const (
	ControlSlider ControlType = "slider"
	ControlNumber ControlType = "number"
	ControlSelect ControlType = "select"
)

// Column names, in the order the model was trained on.
const (
	ColumnAge            = "age"
	ColumnWorkclass      = "workclass"
	ColumnFnlwgt         = "fnlwgt"
	ColumnEducation      = "education"
	ColumnEducationalNum = "educational-num"
	ColumnMaritalStatus  = "marital-status"
	ColumnOccupation     = "occupation"
	ColumnRelationship   = "relationship"
	ColumnRace           = "race"
	ColumnGender         = "gender"
	ColumnCapitalGain    = "capital-gain"
	ColumnCapitalLoss    = "capital-loss"
	ColumnHoursPerWeek   = "hours-per-week"
	ColumnNativeCountry  = "native-country"
	ColumnExperience     = "experience"
)

const (
	// HighIncomeLabel is the class label for incomes above the threshold.
	HighIncomeLabel = ">50K"
	// LowIncomeLabel is the class label for incomes at or below the threshold.
	LowIncomeLabel = "<=50K"

	// PredictionColumn is appended to every predicted batch table.
	PredictionColumn = "Predicted Salary Class"
	// PredictionFileName is the fixed name of the downloadable batch result.
	PredictionFileName = "salary_predictions.csv"
)

// Enumerated values offered by the form for each categorical field.
var (
	WorkclassOptions = []string{
		"Private", "Self-emp-not-inc", "Self-emp-inc", "Federal-gov", "Local-gov", "State-gov",
		"Without-pay", "Never-worked",
	}
	EducationOptions = []string{
		"Bachelors", "HS-grad", "11th", "Masters", "9th", "Some-college", "Assoc-acdm", "Assoc-voc",
		"7th-8th", "Doctorate", "Prof-school", "5th-6th", "10th", "1st-4th", "Preschool", "12th",
	}
	MaritalStatusOptions = []string{
		"Married-civ-spouse", "Divorced", "Never-married", "Separated", "Widowed", "Married-spouse-absent",
	}
	OccupationOptions = []string{
		"Tech-support", "Craft-repair", "Other-service", "Sales", "Exec-managerial", "Prof-specialty",
		"Handlers-cleaners", "Machine-op-inspct", "Adm-clerical", "Farming-fishing", "Transport-moving",
		"Priv-house-serv", "Protective-serv", "Armed-Forces",
	}
	RelationshipOptions = []string{
		"Wife", "Own-child", "Husband", "Not-in-family", "Other-relative", "Unmarried",
	}
	RaceOptions = []string{
		"White", "Black", "Asian-Pac-Islander", "Amer-Indian-Eskimo", "Other",
	}
	GenderOptions        = []string{"Male", "Female"}
	NativeCountryOptions = []string{
		"United-States", "India", "Mexico", "Philippines", "Germany", "Canada", "Iran", "Other",
	}
)

// Field describes one form control and the model column it feeds.
type Field struct {
	Name    string      `json:"name"`
	Label   string      `json:"label"`
	Kind    FieldKind   `json:"kind"`
	Control ControlType `json:"control"`
	Min     *float64    `json:"min,omitempty"`
	Max     *float64    `json:"max,omitempty"`
	Default any         `json:"default"`
	Options []string    `json:"options,omitempty"`
	Aliases []string    `json:"aliases,omitempty"`
}

// InRange reports whether v satisfies the field's bounds. Unbounded sides always pass.
func (f Field) InRange(v float64) bool {
	if f.Min != nil && v < *f.Min {
		return false
	}
	if f.Max != nil && v > *f.Max {
		return false
	}
	return true
}

// HasOption reports whether v is one of the field's enumerated values.
func (f Field) HasOption(v string) bool {
	for _, opt := range f.Options {
		if opt == v {
			return true
		}
	}
	return false
}

// Schema is the ordered list of fields making up an EmployeeRecord.
type Schema []Field

// Columns returns the canonical column names in order.
func (s Schema) Columns() []string {
	cols := make([]string, len(s))
	for i, f := range s {
		cols[i] = f.Name
	}
	return cols
}

// Lookup finds a field by canonical name or alias.
func (s Schema) Lookup(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
		for _, alias := range f.Aliases {
			if alias == name {
				return f, true
			}
		}
	}
	return Field{}, false
}

// Canonical maps a header or alias to its canonical column name.
func (s Schema) Canonical(name string) (string, bool) {
	f, ok := s.Lookup(name)
	if !ok {
		return "", false
	}
	return f.Name, true
}

func bound(v float64) *float64 {
	return &v
}

var employeeSchema = Schema{
	{Name: ColumnAge, Label: "Age", Kind: FieldKindNumeric, Control: ControlSlider, Min: bound(18), Max: bound(90), Default: 30},
	{Name: ColumnWorkclass, Label: "Workclass", Kind: FieldKindCategorical, Control: ControlSelect, Default: WorkclassOptions[0], Options: WorkclassOptions},
	{Name: ColumnFnlwgt, Label: "Final Weight (fnlwgt)", Kind: FieldKindNumeric, Control: ControlNumber, Default: 123456},
	{Name: ColumnEducation, Label: "Education", Kind: FieldKindCategorical, Control: ControlSelect, Default: EducationOptions[0], Options: EducationOptions},
	{Name: ColumnEducationalNum, Label: "Education Number", Kind: FieldKindNumeric, Control: ControlSlider, Min: bound(1), Max: bound(16), Default: 13},
	{Name: ColumnMaritalStatus, Label: "Marital Status", Kind: FieldKindCategorical, Control: ControlSelect, Default: MaritalStatusOptions[0], Options: MaritalStatusOptions},
	{Name: ColumnOccupation, Label: "Occupation", Kind: FieldKindCategorical, Control: ControlSelect, Default: OccupationOptions[0], Options: OccupationOptions},
	{Name: ColumnRelationship, Label: "Relationship", Kind: FieldKindCategorical, Control: ControlSelect, Default: RelationshipOptions[0], Options: RelationshipOptions},
	{Name: ColumnRace, Label: "Race", Kind: FieldKindCategorical, Control: ControlSelect, Default: RaceOptions[0], Options: RaceOptions},
	{Name: ColumnGender, Label: "Gender", Kind: FieldKindCategorical, Control: ControlSelect, Default: GenderOptions[0], Options: GenderOptions},
	{Name: ColumnCapitalGain, Label: "Capital Gain", Kind: FieldKindNumeric, Control: ControlNumber, Default: 0},
	{Name: ColumnCapitalLoss, Label: "Capital Loss", Kind: FieldKindNumeric, Control: ControlNumber, Default: 0},
	{Name: ColumnHoursPerWeek, Label: "Hours per Week", Kind: FieldKindNumeric, Control: ControlSlider, Min: bound(1), Max: bound(99), Default: 40},
	{Name: ColumnNativeCountry, Label: "Native Country", Kind: FieldKindCategorical, Control: ControlSelect, Default: NativeCountryOptions[0], Options: NativeCountryOptions},
	{Name: ColumnExperience, Label: "Years of Experience", Kind: FieldKindNumeric, Control: ControlSlider, Min: bound(0), Max: bound(40), Default: 5, Aliases: []string{"years-of-experience"}},
}

// EmployeeSchema returns the fifteen-field schema in training column order.
func EmployeeSchema() Schema {
	return append(Schema(nil), employeeSchema...)
}
