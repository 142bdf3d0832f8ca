package classifier

import (
	"fmt"

	"github.com/salary-predictor/backend/internal/models"
)

// TreeNode is one node of a flattened decision tree. Internal nodes split on a
// numeric column (value <= Threshold goes left) or on a categorical column
// (value == Category goes left). Children always sit after their parent.
type TreeNode struct {
	Feature   string  `json:"feature,omitempty" yaml:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Category  string  `json:"category,omitempty" yaml:"category,omitempty"`
	Left      int     `json:"left" yaml:"left"`
	Right     int     `json:"right" yaml:"right"`
	Leaf      bool    `json:"leaf" yaml:"leaf"`
	Class     int     `json:"class" yaml:"class"`
}

// DecisionTree classifies rows by walking a flattened binary tree.
type DecisionTree struct {
	layout  *columnLayout
	info    Info
	nodes   []TreeNode
	classes []string
}

func newDecisionTree(a *Artifact) (*DecisionTree, error) {
	layout, err := newColumnLayout(a)
	if err != nil {
		return nil, err
	}
	if len(a.Nodes) == 0 {
		return nil, fmt.Errorf("%w: decision tree has no nodes", ErrInvalidArtifact)
	}

	for idx, node := range a.Nodes {
		if node.Leaf {
			if node.Class < 0 || node.Class >= len(a.Classes) {
				return nil, fmt.Errorf("%w: node %d class %d out of range", ErrInvalidArtifact, idx, node.Class)
			}
			continue
		}
		if !layout.hasColumn(node.Feature) {
			return nil, fmt.Errorf("%w: node %d splits on unknown column %q", ErrInvalidArtifact, idx, node.Feature)
		}
		if cats, ok := layout.categorical[node.Feature]; ok {
			if _, known := cats[node.Category]; !known {
				return nil, fmt.Errorf("%w: node %d splits on unknown category %q", ErrInvalidArtifact, idx, node.Category)
			}
		} else if node.Category != "" {
			return nil, fmt.Errorf("%w: node %d uses a category on numeric column %q", ErrInvalidArtifact, idx, node.Feature)
		}
		for _, child := range []int{node.Left, node.Right} {
			if child <= idx || child >= len(a.Nodes) {
				return nil, fmt.Errorf("%w: node %d has invalid child %d", ErrInvalidArtifact, idx, child)
			}
		}
	}

	return &DecisionTree{
		layout:  layout,
		info:    layout.info(a),
		nodes:   append([]TreeNode(nil), a.Nodes...),
		classes: append([]string(nil), a.Classes...),
	}, nil
}

// Info describes the tree artifact.
func (dt *DecisionTree) Info() Info {
	return dt.info
}

// Predict labels every row or fails without partial output.
func (dt *DecisionTree) Predict(rows []models.FeatureRow) ([]string, error) {
	if err := dt.layout.check(rows); err != nil {
		return nil, err
	}
	labels := make([]string, len(rows))
	for i, row := range rows {
		labels[i] = dt.classes[dt.walk(row)]
	}
	return labels, nil
}

// walk returns the class index of the leaf row lands in. Child indices are
// validated at load time to be strictly increasing, so the loop terminates.
func (dt *DecisionTree) walk(row models.FeatureRow) int {
	idx := 0
	for {
		node := dt.nodes[idx]
		if node.Leaf {
			return node.Class
		}
		if dt.layout.isCategorical(node.Feature) {
			if row.Categorical[node.Feature] == node.Category {
				idx = node.Left
			} else {
				idx = node.Right
			}
			continue
		}
		if row.Numeric[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
}
