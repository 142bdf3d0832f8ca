package models

import "fmt"

// FeatureRow is one row of model input keyed by column name.
type FeatureRow struct {
	Numeric     map[string]float64 `json:"numeric"`
	Categorical map[string]string  `json:"categorical"`
}

// NewFeatureRow creates an empty FeatureRow.
func NewFeatureRow() FeatureRow {
	return FeatureRow{
		Numeric:     make(map[string]float64),
		Categorical: make(map[string]string),
	}
}

// TablePreview is the head of a table as rendered on the page.
type TablePreview struct {
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	TotalRows int        `json:"totalRows"`
}

// BatchTable is an uploaded table of employee rows plus, once predicted,
// one label per row.
type BatchTable struct {
	Header      []string
	Rows        [][]string
	Features    []FeatureRow
	Predictions []string
}

// Len returns the number of data rows.
func (t *BatchTable) Len() int {
	return len(t.Rows)
}

// Predicted reports whether labels have been attached.
func (t *BatchTable) Predicted() bool {
	return t.Predictions != nil
}

// AppendPredictions attaches the model output. Labels must line up one to one with rows.
func (t *BatchTable) AppendPredictions(labels []string) error {
	if len(labels) != len(t.Rows) {
		return fmt.Errorf("model returned %d labels for %d rows", len(labels), len(t.Rows))
	}
	t.Predictions = append([]string(nil), labels...)
	return nil
}

// Columns returns the header, including the prediction column once predicted.
func (t *BatchTable) Columns() []string {
	cols := append([]string(nil), t.Header...)
	if t.Predicted() {
		cols = append(cols, PredictionColumn)
	}
	return cols
}

// Row returns the cells of row i, including its label once predicted.
func (t *BatchTable) Row(i int) []string {
	row := append([]string(nil), t.Rows[i]...)
	if t.Predicted() {
		row = append(row, t.Predictions[i])
	}
	return row
}

// Preview returns the first n rows.
func (t *BatchTable) Preview(n int) TablePreview {
	if n > t.Len() || n < 0 {
		n = t.Len()
	}
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		rows[i] = t.Row(i)
	}
	return TablePreview{
		Columns:   t.Columns(),
		Rows:      rows,
		TotalRows: t.Len(),
	}
}

// LabelCounts tallies predictions per label.
func (t *BatchTable) LabelCounts() map[string]int {
	counts := make(map[string]int)
	for _, label := range t.Predictions {
		counts[label]++
	}
	return counts
}
