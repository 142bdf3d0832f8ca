package classifier

import (
	"fmt"
	"math"

	"github.com/salary-predictor/backend/internal/models"
)

const defaultDecisionThreshold = 0.5

// LogisticParams is the body of a logistic_regression artifact. Numeric columns are
// standardised with Means/Scales when given; categorical columns are one-hot
// encoded through CategoryWeights (a missing weight counts as zero).
type LogisticParams struct {
	Intercept       float64                       `json:"intercept" yaml:"intercept"`
	Threshold       float64                       `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Coefficients    map[string]float64            `json:"coefficients" yaml:"coefficients"`
	Means           map[string]float64            `json:"means,omitempty" yaml:"means,omitempty"`
	Scales          map[string]float64            `json:"scales,omitempty" yaml:"scales,omitempty"`
	CategoryWeights map[string]map[string]float64 `json:"categoryWeights,omitempty" yaml:"categoryWeights,omitempty"`
}

// LogisticRegression scores rows with a linear model and a sigmoid cut-off.
type LogisticRegression struct {
	layout    *columnLayout
	info      Info
	params    LogisticParams
	threshold float64
	classes   []string
}

func newLogisticRegression(a *Artifact) (*LogisticRegression, error) {
	layout, err := newColumnLayout(a)
	if err != nil {
		return nil, err
	}
	if a.Logistic == nil {
		return nil, fmt.Errorf("%w: logistic regression has no parameters", ErrInvalidArtifact)
	}
	p := *a.Logistic

	for col := range p.Coefficients {
		if !layout.hasColumn(col) || layout.isCategorical(col) {
			return nil, fmt.Errorf("%w: coefficient for non-numeric column %q", ErrInvalidArtifact, col)
		}
	}
	for col, scale := range p.Scales {
		if scale == 0 {
			return nil, fmt.Errorf("%w: zero scale for column %q", ErrInvalidArtifact, col)
		}
	}
	for col, weights := range p.CategoryWeights {
		cats, ok := layout.categorical[col]
		if !ok {
			return nil, fmt.Errorf("%w: category weights for non-categorical column %q", ErrInvalidArtifact, col)
		}
		for cat := range weights {
			if _, known := cats[cat]; !known {
				return nil, fmt.Errorf("%w: weight for unknown category %q in column %q", ErrInvalidArtifact, cat, col)
			}
		}
	}

	threshold := p.Threshold
	if threshold == 0 {
		threshold = defaultDecisionThreshold
	}
	if threshold <= 0 || threshold >= 1 {
		return nil, fmt.Errorf("%w: threshold %v outside (0, 1)", ErrInvalidArtifact, threshold)
	}

	return &LogisticRegression{
		layout:    layout,
		info:      layout.info(a),
		params:    p,
		threshold: threshold,
		classes:   append([]string(nil), a.Classes...),
	}, nil
}

// Info describes the logistic regression artifact.
func (lr *LogisticRegression) Info() Info {
	return lr.info
}

// Predict labels every row or fails without partial output.
func (lr *LogisticRegression) Predict(rows []models.FeatureRow) ([]string, error) {
	if err := lr.layout.check(rows); err != nil {
		return nil, err
	}
	labels := make([]string, len(rows))
	for i, row := range rows {
		if lr.Probability(row) >= lr.threshold {
			labels[i] = lr.classes[1]
		} else {
			labels[i] = lr.classes[0]
		}
	}
	return labels, nil
}

// Probability returns the modelled probability of the second class.
func (lr *LogisticRegression) Probability(row models.FeatureRow) float64 {
	// Sum in column order so repeated calls produce bit-identical results.
	z := lr.params.Intercept
	for _, col := range lr.layout.columns {
		if weights, ok := lr.params.CategoryWeights[col]; ok {
			z += weights[row.Categorical[col]]
			continue
		}
		coef, ok := lr.params.Coefficients[col]
		if !ok {
			continue
		}
		v := row.Numeric[col]
		if mean, ok := lr.params.Means[col]; ok {
			v -= mean
		}
		if scale, ok := lr.params.Scales[col]; ok {
			v /= scale
		}
		z += coef * v
	}
	return 1 / (1 + math.Exp(-z))
}
