package inference

import (
	"errors"
	"fmt"
	"slices"
)

// Scorer is a pre-trained classifier that returns a class id for a row.
type Scorer interface {
	Predict(row FeatureRow) (int, error)
	Classes() []int
}

// ProbabilityScorer is a Scorer that can also report per-class probabilities.
type ProbabilityScorer interface {
	Scorer
	PredictProba(row FeatureRow) ([]ClassProbability, error)
}

// ClassProbability is one entry of a probability vector.
type ClassProbability struct {
	ClassID     int     `json:"class_id" yaml:"class_id"`
	Probability float64 `json:"probability" yaml:"probability"`
}

// TreeNode is either a split on Feature or, when Feature is negative, a leaf.
// Leaves carry a class distribution in Value, or only a class id in Class.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     []float64
	Class     *int
}

func (n TreeNode) isLeaf() bool {
	return n.Feature < 0
}

type Tree struct {
	Nodes []TreeNode
}

// TreeEnsemble is an averaged forest of binary decision trees.
type TreeEnsemble struct {
	classes       []int
	features      []string
	trees         []Tree
	distributions bool
}

func NewTreeEnsemble(classes []int, features []string, trees []Tree) (*TreeEnsemble, error) {
	if len(classes) == 0 {
		return nil, errors.New("model has no classes")
	}
	if len(trees) == 0 {
		return nil, errors.New("model has no trees")
	}

	seen := make(map[int]struct{}, len(classes))
	for _, c := range classes {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("model has duplicate class %d", c)
		}
		seen[c] = struct{}{}
	}

	width := len(features)
	for ti, t := range trees {
		if len(t.Nodes) == 0 {
			return nil, fmt.Errorf("tree %d has no nodes", ti)
		}
		for ni, n := range t.Nodes {
			if err := checkNode(n, ni, len(t.Nodes), width, classes); err != nil {
				return nil, fmt.Errorf("tree %d node %d: %w", ti, ni, err)
			}
		}
	}

	m := &TreeEnsemble{
		classes:       append([]int(nil), classes...),
		features:      append([]string(nil), features...),
		trees:         trees,
		distributions: true,
	}
	for _, t := range trees {
		for _, n := range t.Nodes {
			if n.isLeaf() && n.Value == nil {
				m.distributions = false
			}
		}
	}
	return m, nil
}

func checkNode(n TreeNode, idx, count, width int, classes []int) error {
	if !n.isLeaf() {
		if width > 0 && n.Feature >= width {
			return fmt.Errorf("split on feature %d, model has %d features", n.Feature, width)
		}
		if n.Left <= idx || n.Left >= count || n.Right <= idx || n.Right >= count {
			return fmt.Errorf("children %d/%d out of range", n.Left, n.Right)
		}
		return nil
	}

	switch {
	case n.Value != nil:
		if len(n.Value) != len(classes) {
			return fmt.Errorf("leaf distribution has %d entries, model has %d classes", len(n.Value), len(classes))
		}
		var total float64
		for _, v := range n.Value {
			if v < 0 {
				return errors.New("leaf distribution has a negative weight")
			}
			total += v
		}
		if total <= 0 {
			return errors.New("leaf distribution is empty")
		}
	case n.Class != nil:
		if indexOf(classes, *n.Class) < 0 {
			return fmt.Errorf("leaf class %d is not a model class", *n.Class)
		}
	default:
		return errors.New("leaf has neither a distribution nor a class")
	}
	return nil
}

func (m *TreeEnsemble) Classes() []int {
	return append([]int(nil), m.classes...)
}

// Features returns the column names the model was trained with, if declared.
func (m *TreeEnsemble) Features() []string {
	return append([]string(nil), m.features...)
}

// HasDistributions reports whether every leaf carries a class distribution.
func (m *TreeEnsemble) HasDistributions() bool {
	return m.distributions
}

func (m *TreeEnsemble) checkShape(row FeatureRow) error {
	if len(m.features) == 0 {
		return nil
	}
	if row.Len() != len(m.features) || !slices.Equal(rowColumns(row), m.features) {
		return &ShapeMismatchError{Expected: m.Features(), Got: rowColumns(row)}
	}
	return nil
}

func rowColumns(row FeatureRow) []string {
	cols := FeatureColumns()
	if row.Len() < len(cols) {
		return cols[:row.Len()]
	}
	return cols
}

func (m *TreeEnsemble) leaf(t Tree, row FeatureRow) (TreeNode, error) {
	i := 0
	for {
		n := t.Nodes[i]
		if n.isLeaf() {
			return n, nil
		}
		if n.Feature >= row.Len() {
			return TreeNode{}, &ShapeMismatchError{Expected: m.Features(), Got: rowColumns(row)}
		}
		if row.Values[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// PredictProba averages the normalized leaf distributions of all trees.
func (m *TreeEnsemble) PredictProba(row FeatureRow) ([]ClassProbability, error) {
	if err := m.checkShape(row); err != nil {
		return nil, err
	}

	sums := make([]float64, len(m.classes))
	for _, t := range m.trees {
		n, err := m.leaf(t, row)
		if err != nil {
			return nil, err
		}
		if n.Value == nil {
			return nil, errors.New("model does not provide class probabilities")
		}
		var total float64
		for _, v := range n.Value {
			total += v
		}
		for i, v := range n.Value {
			sums[i] += v / total
		}
	}

	out := make([]ClassProbability, len(m.classes))
	for i, c := range m.classes {
		out[i] = ClassProbability{ClassID: c, Probability: sums[i] / float64(len(m.trees))}
	}
	return out, nil
}

// Predict returns the class with the highest averaged probability, or the
// majority vote when leaves only carry class ids. Ties go to the class listed
// first.
func (m *TreeEnsemble) Predict(row FeatureRow) (int, error) {
	if m.HasDistributions() {
		proba, err := m.PredictProba(row)
		if err != nil {
			return 0, err
		}
		best := 0
		for i := range proba {
			if proba[i].Probability > proba[best].Probability {
				best = i
			}
		}
		return proba[best].ClassID, nil
	}

	if err := m.checkShape(row); err != nil {
		return 0, err
	}

	votes := make([]float64, len(m.classes))
	for _, t := range m.trees {
		n, err := m.leaf(t, row)
		if err != nil {
			return 0, err
		}
		if n.Class != nil {
			votes[indexOf(m.classes, *n.Class)]++
			continue
		}
		best := 0
		for i := range n.Value {
			if n.Value[i] > n.Value[best] {
				best = i
			}
		}
		votes[best]++
	}

	best := 0
	for i := range votes {
		if votes[i] > votes[best] {
			best = i
		}
	}
	return m.classes[best], nil
}

// labelOnly hides PredictProba so the wrapped model is not mistaken for a
// ProbabilityScorer.
type labelOnly struct {
	m *TreeEnsemble
}

func (l labelOnly) Predict(row FeatureRow) (int, error) {
	return l.m.Predict(row)
}

func (l labelOnly) Classes() []int {
	return l.m.Classes()
}

// AsScorer exposes m as a ProbabilityScorer when every leaf has a class
// distribution and as a label-only Scorer otherwise.
func (m *TreeEnsemble) AsScorer() Scorer {
	if m.HasDistributions() {
		return m
	}
	return labelOnly{m: m}
}

func indexOf(xs []int, x int) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}
	return -1
}
