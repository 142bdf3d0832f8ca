// Package classifier loads the pre-trained income classifier and scores rows with it.
//
// An artifact is a self-describing envelope (type, column order, class labels and the
// category sets seen in training) followed by the model body. Artifacts are read once
// at start-up and never mutated, so a Classifier is safe for concurrent use.
package classifier

import (
	"errors"
	"fmt"
	"math"

	"github.com/salary-predictor/backend/internal/models"
)

// Model types understood by New.
const (
	TypeDecisionTree       = "decision_tree"
	TypeLogisticRegression = "logistic_regression"
)

var (
	// ErrInvalidArtifact is returned when an artifact fails structural checks.
	ErrInvalidArtifact = errors.New("invalid model artifact")
	// ErrUnsupportedType is returned for an unknown artifact type.
	ErrUnsupportedType = errors.New("unsupported model type")
	// ErrMissingColumn is returned when a row lacks a trained column.
	ErrMissingColumn = errors.New("missing column")
	// ErrUnknownCategory is returned when a categorical value was not seen in training.
	ErrUnknownCategory = errors.New("found unknown category")
	// ErrInvalidValue is returned for NaN or infinite numeric input.
	ErrInvalidValue = errors.New("invalid numeric value")
)

// Classifier is a trained model exposing predict(rows) -> labels.
type Classifier interface {
	// Predict returns one label per row, in row order. Either every row is
	// scored or an error is returned.
	Predict(rows []models.FeatureRow) ([]string, error)
	// Info describes the loaded artifact.
	Info() Info
}

// Info describes a loaded artifact.
type Info struct {
	Type       string              `json:"type"`
	Version    string              `json:"version,omitempty"`
	Columns    []string            `json:"columns"`
	Classes    []string            `json:"classes"`
	Categories map[string][]string `json:"-"`
}

// IsCategorical reports whether the model treats column as categorical.
func (i Info) IsCategorical(column string) bool {
	_, ok := i.Categories[column]
	return ok
}

// RowError locates a prediction failure in the input.
type RowError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("row %d: %v %q in column %q", e.Row+1, e.Err, e.Value, e.Column)
	}
	return fmt.Sprintf("row %d: %v %q", e.Row+1, e.Err, e.Column)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// columnLayout holds the trained column layout shared by every model type.
type columnLayout struct {
	columns     []string
	categorical map[string]map[string]struct{}
}

func newColumnLayout(a *Artifact) (*columnLayout, error) {
	if len(a.Columns) == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrInvalidArtifact)
	}
	if len(a.Classes) != 2 {
		return nil, fmt.Errorf("%w: expected 2 classes, got %d", ErrInvalidArtifact, len(a.Classes))
	}

	layout := &columnLayout{
		columns:     append([]string(nil), a.Columns...),
		categorical: make(map[string]map[string]struct{}, len(a.Categories)),
	}
	seen := make(map[string]struct{}, len(a.Columns))
	for _, col := range a.Columns {
		if col == "" {
			return nil, fmt.Errorf("%w: empty column name", ErrInvalidArtifact)
		}
		if _, dup := seen[col]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrInvalidArtifact, col)
		}
		seen[col] = struct{}{}
	}
	for col, cats := range a.Categories {
		if _, ok := seen[col]; !ok {
			return nil, fmt.Errorf("%w: categories given for unknown column %q", ErrInvalidArtifact, col)
		}
		if len(cats) == 0 {
			return nil, fmt.Errorf("%w: column %q has no categories", ErrInvalidArtifact, col)
		}
		set := make(map[string]struct{}, len(cats))
		for _, c := range cats {
			set[c] = struct{}{}
		}
		layout.categorical[col] = set
	}
	return layout, nil
}

func (s *columnLayout) isCategorical(col string) bool {
	_, ok := s.categorical[col]
	return ok
}

func (s *columnLayout) hasColumn(col string) bool {
	for _, c := range s.columns {
		if c == col {
			return true
		}
	}
	return false
}

// check verifies that every row carries every trained column with a usable value.
func (s *columnLayout) check(rows []models.FeatureRow) error {
	for i, row := range rows {
		for _, col := range s.columns {
			if cats, ok := s.categorical[col]; ok {
				v, present := row.Categorical[col]
				if !present {
					return &RowError{Row: i, Column: col, Err: ErrMissingColumn}
				}
				if _, known := cats[v]; !known {
					return &RowError{Row: i, Column: col, Value: v, Err: ErrUnknownCategory}
				}
				continue
			}
			v, present := row.Numeric[col]
			if !present {
				return &RowError{Row: i, Column: col, Err: ErrMissingColumn}
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &RowError{Row: i, Column: col, Value: fmt.Sprint(v), Err: ErrInvalidValue}
			}
		}
	}
	return nil
}

func (s *columnLayout) info(a *Artifact) Info {
	cats := make(map[string][]string, len(a.Categories))
	for col, values := range a.Categories {
		cats[col] = append([]string(nil), values...)
	}
	return Info{
		Type:       a.Type,
		Version:    a.Version,
		Columns:    append([]string(nil), s.columns...),
		Classes:    append([]string(nil), a.Classes...),
		Categories: cats,
	}
}

// New builds a Classifier from a decoded artifact.
func New(a *Artifact) (Classifier, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: empty artifact", ErrInvalidArtifact)
	}
	switch a.Type {
	case TypeDecisionTree:
		return newDecisionTree(a)
	case TypeLogisticRegression:
		return newLogisticRegression(a)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, a.Type)
	}
}

// CheckSchema verifies that the model was trained on exactly the columns of schema,
// with matching kinds.
func CheckSchema(c Classifier, schema models.Schema) error {
	info := c.Info()
	modelCols := make(map[string]struct{}, len(info.Columns))
	for _, col := range info.Columns {
		field, ok := schema.Lookup(col)
		if !ok {
			return fmt.Errorf("model column %q is not part of the employee schema", col)
		}
		if field.Name != col {
			return fmt.Errorf("model column %q must use the canonical name %q", col, field.Name)
		}
		wantCategorical := field.Kind == models.FieldKindCategorical
		if info.IsCategorical(col) != wantCategorical {
			return fmt.Errorf("model column %q kind does not match schema kind %s", col, field.Kind)
		}
		modelCols[col] = struct{}{}
	}
	for _, f := range schema {
		if _, ok := modelCols[f.Name]; !ok {
			return fmt.Errorf("schema field %q is missing from the model", f.Name)
		}
	}
	return nil
}

// UnknownOptions lists form options per column that the model never saw in training.
// Predictions for those values fail at request time.
func UnknownOptions(c Classifier, schema models.Schema) map[string][]string {
	info := c.Info()
	out := make(map[string][]string)
	for _, f := range schema {
		cats, ok := info.Categories[f.Name]
		if !ok {
			continue
		}
		known := make(map[string]struct{}, len(cats))
		for _, v := range cats {
			known[v] = struct{}{}
		}
		for _, opt := range f.Options {
			if _, ok := known[opt]; !ok {
				out[f.Name] = append(out[f.Name], opt)
			}
		}
	}
	return out
}
