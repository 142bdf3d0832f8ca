package testutil

import (
	"strings"

	"github.com/salary-predictor/backend/internal/models"
)

// ModelPath is the shipped artifact, relative to a package directory under internal/.
const ModelPath = "../../data/models/salary_model.json"

// SampleHeader is the canonical CSV header.
var SampleHeader = strings.Join(models.EmployeeSchema().Columns(), ",")

// SampleRows are three valid data rows matching SampleHeader.
var SampleRows = []string{
	"30,Private,123456,Bachelors,13,Never-married,Tech-support,Not-in-family,White,Male,0,0,40,United-States,5",
	"45,Self-emp-inc,200000,Masters,14,Married-civ-spouse,Exec-managerial,Husband,White,Male,15024,0,50,United-States,20",
	"22,State-gov,88000,HS-grad,9,Never-married,Adm-clerical,Own-child,Black,Female,0,0,20,Canada,1",
}

// SampleCSV returns a CSV document with the given rows, or SampleRows when none are given.
func SampleCSV(rows ...string) string {
	if len(rows) == 0 {
		rows = SampleRows
	}
	return SampleHeader + "\n" + strings.Join(rows, "\n") + "\n"
}

// SampleRecord is the example employee used throughout the tests.
func SampleRecord() models.EmployeeRecord {
	return models.EmployeeRecord{
		Age:            30,
		Workclass:      "Private",
		Fnlwgt:         123456,
		Education:      "Bachelors",
		EducationalNum: 13,
		MaritalStatus:  "Never-married",
		Occupation:     "Tech-support",
		Relationship:   "Not-in-family",
		Race:           "White",
		Gender:         "Male",
		CapitalGain:    0,
		CapitalLoss:    0,
		HoursPerWeek:   40,
		NativeCountry:  "United-States",
		Experience:     5,
	}
}
