package testutil

import (
	"sync"

	"github.com/salary-predictor/backend/internal/classifier"
	"github.com/salary-predictor/backend/internal/models"
)

// StubClassifier implements classifier.Classifier with canned labels.
// Labels are handed out cyclically, one per row.
type StubClassifier struct {
	mu     sync.Mutex
	Labels []string
	Err    error
	Calls  int
	Rows   [][]models.FeatureRow
}

var _ classifier.Classifier = (*StubClassifier)(nil)

// NewStubClassifier returns a stub answering with labels, or "<=50K" when none are given.
func NewStubClassifier(labels ...string) *StubClassifier {
	if len(labels) == 0 {
		labels = []string{models.LowIncomeLabel}
	}
	return &StubClassifier{Labels: labels}
}

func (s *StubClassifier) Predict(rows []models.FeatureRow) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls++
	s.Rows = append(s.Rows, rows)
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]string, len(rows))
	for i := range rows {
		out[i] = s.Labels[i%len(s.Labels)]
	}
	return out, nil
}

func (s *StubClassifier) Info() classifier.Info {
	schema := models.EmployeeSchema()
	cats := make(map[string][]string)
	for _, f := range schema {
		if f.Kind == models.FieldKindCategorical {
			cats[f.Name] = append([]string(nil), f.Options...)
		}
	}
	return classifier.Info{
		Type:       "stub",
		Version:    "test",
		Columns:    schema.Columns(),
		Classes:    []string{models.LowIncomeLabel, models.HighIncomeLabel},
		Categories: cats,
	}
}

// CallCount returns how many times Predict was invoked.
func (s *StubClassifier) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Calls
}
