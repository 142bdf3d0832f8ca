// Package predictor turns employee records and uploaded tables into income predictions.
//
// Both predictors share the loaded classifier and nothing else. A request is one
// synchronous cycle; no state survives it.
package predictor

import (
	"errors"

	"github.com/salary-predictor/backend/internal/classifier"
	"github.com/salary-predictor/backend/internal/models"
	"github.com/salary-predictor/backend/internal/parser"
)

// Messages shown for each outcome.
const (
	MessageHighIncome = "This employee is likely to earn more than $50K."
	MessageLowIncome  = "This employee is likely to earn $50K or less."
)

// Error is a failure while reading or scoring input, as opposed to a bad request.
type Error struct {
	Mode string
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Interpret maps a model label to the message shown to the user.
// Only an exact match of positiveLabel counts as high income.
func Interpret(label, positiveLabel string) *models.PredictionResult {
	if label == positiveLabel {
		return &models.PredictionResult{
			Label:      label,
			HighIncome: true,
			Level:      models.ResultLevelSuccess,
			Message:    MessageHighIncome,
		}
	}
	return &models.PredictionResult{
		Label:   label,
		Level:   models.ResultLevelInfo,
		Message: MessageLowIncome,
	}
}

// reason classifies an error for the errors metric.
func reason(err error) string {
	switch {
	case errors.Is(err, classifier.ErrUnknownCategory):
		return "unknown_category"
	case errors.Is(err, classifier.ErrMissingColumn):
		return "missing_column"
	case errors.Is(err, classifier.ErrInvalidValue):
		return "invalid_value"
	case errors.Is(err, parser.ErrEmptyFile), errors.Is(err, parser.ErrNoRows):
		return "empty_file"
	case errors.Is(err, parser.ErrMissingColumns), errors.Is(err, parser.ErrDuplicateColumn),
		errors.Is(err, parser.ErrExtraColumns):
		return "bad_header"
	case errors.Is(err, parser.ErrInvalidNumber), errors.Is(err, parser.ErrMalformed),
		errors.Is(err, parser.ErrInvalidEncoding):
		return "bad_row"
	case errors.Is(err, parser.ErrTooManyRows):
		return "too_many_rows"
	default:
		return "model_error"
	}
}
