package predictor

import (
	"fmt"
	"time"

	"github.com/salary-predictor/backend/internal/classifier"
	"github.com/salary-predictor/backend/internal/metrics"
	"github.com/salary-predictor/backend/internal/models"
	"go.uber.org/zap"
)

// RecordPredictor scores a single employee record.
type RecordPredictor struct {
	model         classifier.Classifier
	positiveLabel string
	logger        *zap.Logger
}

func NewRecordPredictor(model classifier.Classifier, positiveLabel string, logger *zap.Logger) *RecordPredictor {
	if positiveLabel == "" {
		positiveLabel = models.HighIncomeLabel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordPredictor{
		model:         model,
		positiveLabel: positiveLabel,
		logger:        logger.Named("record"),
	}
}

// PredictRecord runs the model on a one-row batch built from rec.
func (p *RecordPredictor) PredictRecord(rec models.EmployeeRecord) (*models.PredictionResult, error) {
	start := time.Now()
	labels, err := p.model.Predict([]models.FeatureRow{rec.FeatureRow()})
	metrics.PredictionDuration.WithLabelValues(metrics.ModeSingle).Observe(time.Since(start).Seconds())

	if err == nil && len(labels) != 1 {
		err = fmt.Errorf("model returned %d labels for 1 row", len(labels))
	}
	if err != nil {
		metrics.PredictionErrors.WithLabelValues(metrics.ModeSingle, reason(err)).Inc()
		p.logger.Warn("prediction failed", zap.Error(err))
		return nil, &Error{Mode: metrics.ModeSingle, Err: err}
	}

	result := Interpret(labels[0], p.positiveLabel)
	metrics.PredictionsTotal.WithLabelValues(metrics.ModeSingle, result.Label).Inc()
	p.logger.Debug("record predicted",
		zap.String("label", result.Label),
		zap.Duration("took", time.Since(start)))
	return result, nil
}
