package api

import (
	"testing"

	"github.com/salary-predictor/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestValidator(t *testing.T) {
	v := NewRequestValidator(models.EmployeeSchema())

	tests := []struct {
		name       string
		mutate     func(r *models.EmployeeRecord)
		wantField  string
		wantReason string
	}{
		{name: "defaults are valid", mutate: func(r *models.EmployeeRecord) {}},
		{name: "upper bounds are inclusive", mutate: func(r *models.EmployeeRecord) {
			r.Age, r.EducationalNum, r.HoursPerWeek, r.Experience = 90, 16, 99, 40
		}},
		{
			name:       "age too high",
			mutate:     func(r *models.EmployeeRecord) { r.Age = 91 },
			wantField:  "age",
			wantReason: "validation failed for field: age (must be between 18 and 90, got 91)",
		},
		{
			name:       "educational number zero",
			mutate:     func(r *models.EmployeeRecord) { r.EducationalNum = 0 },
			wantField:  "educational-num",
			wantReason: "validation failed for field: educational-num (must be between 1 and 16, got 0)",
		},
		{
			name:       "negative experience",
			mutate:     func(r *models.EmployeeRecord) { r.Experience = -1 },
			wantField:  "experience",
			wantReason: "validation failed for field: experience (must be between 0 and 40, got -1)",
		},
		{
			name:       "unknown race",
			mutate:     func(r *models.EmployeeRecord) { r.Race = "Martian" },
			wantField:  "race",
			wantReason: `validation failed for field: race (unknown value "Martian")`,
		},
		{
			name:       "empty country",
			mutate:     func(r *models.EmployeeRecord) { r.NativeCountry = "" },
			wantField:  "native-country",
			wantReason: `validation failed for field: native-country (unknown value "")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := models.DefaultEmployeeRecord()
			tt.mutate(&rec)

			err := v.Validate(rec)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			apiErr, ok := err.(*APIError)
			require.True(t, ok, "expected APIError, got %T", err)
			assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
			assert.Equal(t, tt.wantField, apiErr.Field)
			assert.Equal(t, tt.wantReason, apiErr.Message)
		})
	}
}
