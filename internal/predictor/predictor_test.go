package predictor

import (
	"errors"
	"strings"
	"testing"

	"github.com/salary-predictor/backend/internal/classifier"
	"github.com/salary-predictor/backend/internal/metrics"
	"github.com/salary-predictor/backend/internal/models"
	"github.com/salary-predictor/backend/internal/parser"
	"github.com/salary-predictor/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpret(t *testing.T) {
	tests := []struct {
		label       string
		wantHigh    bool
		wantLevel   models.ResultLevel
		wantMessage string
	}{
		{label: ">50K", wantHigh: true, wantLevel: models.ResultLevelSuccess, wantMessage: MessageHighIncome},
		{label: "<=50K", wantLevel: models.ResultLevelInfo, wantMessage: MessageLowIncome},
		{label: ">50K.", wantLevel: models.ResultLevelInfo, wantMessage: MessageLowIncome},
		{label: "", wantLevel: models.ResultLevelInfo, wantMessage: MessageLowIncome},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got := Interpret(tt.label, models.HighIncomeLabel)
			assert.Equal(t, tt.label, got.Label)
			assert.Equal(t, tt.wantHigh, got.HighIncome)
			assert.Equal(t, tt.wantLevel, got.Level)
			assert.Equal(t, tt.wantMessage, got.Message)
		})
	}
}

func TestRecordPredictor_BuildsOneRowInColumnOrder(t *testing.T) {
	stub := testutil.NewStubClassifier(models.HighIncomeLabel)
	p := NewRecordPredictor(stub, "", nil)

	result, err := p.PredictRecord(testutil.SampleRecord())
	require.NoError(t, err)
	assert.True(t, result.HighIncome)
	assert.Equal(t, MessageHighIncome, result.Message)

	require.Len(t, stub.Rows, 1)
	require.Len(t, stub.Rows[0], 1)
	row := stub.Rows[0][0]
	assert.Equal(t, 30.0, row.Numeric[models.ColumnAge])
	assert.Equal(t, 5.0, row.Numeric[models.ColumnExperience])
	assert.Equal(t, "Tech-support", row.Categorical[models.ColumnOccupation])
}

func TestRecordPredictor_ShippedModel(t *testing.T) {
	model, err := classifier.Load(testutil.ModelPath)
	require.NoError(t, err)
	p := NewRecordPredictor(model, models.HighIncomeLabel, nil)

	first, err := p.PredictRecord(testutil.SampleRecord())
	require.NoError(t, err)
	assert.Contains(t, []string{models.HighIncomeLabel, models.LowIncomeLabel}, first.Label)
	assert.Equal(t, models.ResultLevelInfo, first.Level)

	again, err := p.PredictRecord(testutil.SampleRecord())
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestRecordPredictor_ModelFailure(t *testing.T) {
	stub := testutil.NewStubClassifier()
	stub.Err = &classifier.RowError{Column: "workclass", Value: "Astronaut", Err: classifier.ErrUnknownCategory}
	p := NewRecordPredictor(stub, models.HighIncomeLabel, nil)

	result, err := p.PredictRecord(testutil.SampleRecord())
	assert.Nil(t, result)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, metrics.ModeSingle, perr.Mode)
	assert.ErrorIs(t, err, classifier.ErrUnknownCategory)
	assert.Contains(t, err.Error(), `found unknown category "Astronaut" in column "workclass"`)
}

func TestRecordPredictor_WrongLabelCount(t *testing.T) {
	p := NewRecordPredictor(labelCountClassifier{n: 2}, models.HighIncomeLabel, nil)

	_, err := p.PredictRecord(testutil.SampleRecord())
	assert.ErrorContains(t, err, "model returned 2 labels for 1 row")
}

func TestBatchPredictor_PredictFile(t *testing.T) {
	stub := testutil.NewStubClassifier(models.LowIncomeLabel, models.HighIncomeLabel)
	b := NewBatchPredictor(stub, nil, nil)

	table, err := b.PredictFile(strings.NewReader(testutil.SampleCSV()))
	require.NoError(t, err)

	assert.Equal(t, 1, stub.CallCount(), "all rows go to the model in one call")
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []string{models.LowIncomeLabel, models.HighIncomeLabel, models.LowIncomeLabel}, table.Predictions)
	assert.Equal(t, models.PredictionColumn, table.Columns()[len(table.Columns())-1])
	assert.Equal(t, map[string]int{models.LowIncomeLabel: 2, models.HighIncomeLabel: 1}, table.LabelCounts())

	out, err := parser.EncodeCSV(table)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 4)
	for i, row := range testutil.SampleRows {
		assert.True(t, strings.HasPrefix(lines[i+1], row+","), "row %d keeps its position", i)
	}
}

func TestBatchPredictor_ShippedModel(t *testing.T) {
	model, err := classifier.Load(testutil.ModelPath)
	require.NoError(t, err)
	b := NewBatchPredictor(model, parser.NewCSVBatchParser(parser.DefaultOptions()), nil)

	table, err := b.PredictFile(strings.NewReader(testutil.SampleCSV()))
	require.NoError(t, err)
	assert.Equal(t, []string{models.LowIncomeLabel, models.HighIncomeLabel, models.LowIncomeLabel}, table.Predictions)
}

func TestBatchPredictor_Failures(t *testing.T) {
	t.Run("missing column never reaches the model", func(t *testing.T) {
		stub := testutil.NewStubClassifier()
		b := NewBatchPredictor(stub, nil, nil)

		input := "age,workclass\n30,Private\n"
		table, err := b.PredictFile(strings.NewReader(input))
		assert.Nil(t, table)
		assert.ErrorIs(t, err, parser.ErrMissingColumns)
		assert.Equal(t, 0, stub.CallCount())
	})

	t.Run("model error leaves no predictions", func(t *testing.T) {
		stub := testutil.NewStubClassifier()
		stub.Err = errors.New("model exploded")
		b := NewBatchPredictor(stub, nil, nil)

		table, err := parser.NewCSVBatchParser(parser.DefaultOptions()).Parse(strings.NewReader(testutil.SampleCSV()))
		require.NoError(t, err)

		out, err := b.Predict(table)
		assert.Nil(t, out)
		assert.EqualError(t, err, "model exploded")
		assert.False(t, table.Predicted())

		var perr *Error
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, metrics.ModeBatch, perr.Mode)
	})

	t.Run("model error still returns the parsed upload", func(t *testing.T) {
		stub := testutil.NewStubClassifier()
		stub.Err = errors.New("model exploded")
		b := NewBatchPredictor(stub, nil, nil)

		table, err := b.PredictFile(strings.NewReader(testutil.SampleCSV()))
		assert.EqualError(t, err, "model exploded")
		require.NotNil(t, table)
		assert.Equal(t, 3, table.Len())
		assert.False(t, table.Predicted())
	})

	t.Run("label count mismatch", func(t *testing.T) {
		b := NewBatchPredictor(labelCountClassifier{n: 1}, nil, nil)

		_, err := b.PredictFile(strings.NewReader(testutil.SampleCSV()))
		assert.ErrorContains(t, err, "model returned 1 labels for 3 rows")
	})

	t.Run("invalid encoding", func(t *testing.T) {
		stub := testutil.NewStubClassifier()
		b := NewBatchPredictor(stub, nil, nil)

		input := testutil.SampleCSV(strings.Replace(testutil.SampleRows[0], "Private", "Priv\xe9", 1))
		table, err := b.PredictFile(strings.NewReader(input))
		assert.Nil(t, table)
		assert.ErrorIs(t, err, parser.ErrInvalidEncoding)
		assert.Equal(t, 0, stub.CallCount())
	})
}

func TestReason(t *testing.T) {
	assert.Equal(t, "unknown_category", reason(&classifier.RowError{Err: classifier.ErrUnknownCategory}))
	assert.Equal(t, "bad_header", reason(parser.ErrMissingColumns))
	assert.Equal(t, "empty_file", reason(parser.ErrNoRows))
	assert.Equal(t, "bad_row", reason(parser.ErrInvalidEncoding))
	assert.Equal(t, "model_error", reason(errors.New("boom")))
}

// labelCountClassifier returns n labels whatever the input size.
type labelCountClassifier struct {
	n int
}

func (c labelCountClassifier) Predict(_ []models.FeatureRow) ([]string, error) {
	return make([]string, c.n), nil
}

func (c labelCountClassifier) Info() classifier.Info {
	return classifier.Info{}
}
