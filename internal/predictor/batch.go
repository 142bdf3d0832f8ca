package predictor

import (
	"fmt"
	"io"
	"time"

	"github.com/salary-predictor/backend/internal/classifier"
	"github.com/salary-predictor/backend/internal/metrics"
	"github.com/salary-predictor/backend/internal/models"
	"github.com/salary-predictor/backend/internal/parser"
	"go.uber.org/zap"
)

// BatchPredictor scores uploaded tables.
type BatchPredictor struct {
	model  classifier.Classifier
	parser parser.BatchParser
	logger *zap.Logger
}

func NewBatchPredictor(model classifier.Classifier, p parser.BatchParser, logger *zap.Logger) *BatchPredictor {
	if p == nil {
		p = parser.NewCSVBatchParser(parser.DefaultOptions())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchPredictor{
		model:  model,
		parser: p,
		logger: logger.Named("batch"),
	}
}

// PredictFile parses r and predicts every row. When parsing succeeds but the
// model fails, the unpredicted table is returned along with the error.
func (b *BatchPredictor) PredictFile(r io.Reader) (*models.BatchTable, error) {
	table, err := b.parser.Parse(r)
	if err != nil {
		return nil, b.fail(err)
	}
	if _, err := b.Predict(table); err != nil {
		return table, err
	}
	return table, nil
}

// Predict labels every row of table in one model call and appends the labels to it.
// On failure table is left without predictions.
func (b *BatchPredictor) Predict(table *models.BatchTable) (*models.BatchTable, error) {
	start := time.Now()
	labels, err := b.model.Predict(table.Features)
	metrics.PredictionDuration.WithLabelValues(metrics.ModeBatch).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, b.fail(err)
	}
	if err := table.AppendPredictions(labels); err != nil {
		return nil, b.fail(fmt.Errorf("appending predictions: %w", err))
	}

	metrics.BatchRows.Observe(float64(table.Len()))
	for label, n := range table.LabelCounts() {
		metrics.PredictionsTotal.WithLabelValues(metrics.ModeBatch, label).Add(float64(n))
	}
	b.logger.Info("batch predicted",
		zap.Int("rows", table.Len()),
		zap.Duration("took", time.Since(start)))
	return table, nil
}

func (b *BatchPredictor) fail(err error) error {
	metrics.PredictionErrors.WithLabelValues(metrics.ModeBatch, reason(err)).Inc()
	b.logger.Warn("batch prediction failed", zap.Error(err))
	return &Error{Mode: metrics.ModeBatch, Err: err}
}
