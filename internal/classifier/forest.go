// Package classifier loads a pre-trained tree ensemble and answers
// class and probability queries against it.
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
)

var (
	// ErrModelLoad is returned when the artifact is missing or invalid.
	ErrModelLoad = errors.New("model load failed")
	// ErrInference is returned when a feature vector does not fit the model.
	ErrInference = errors.New("inference failed")
)

const (
	leaf = -1
	// valueTolerance bounds how far a node distribution may sum from 1.
	valueTolerance = 1e-6
)

// Node is one node of a decision tree. Value holds the class distribution
// of the training samples that reached the node.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value"`
}

func (n Node) isLeaf() bool {
	return n.Left == leaf
}

// Tree is a flat array of nodes rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Forest is an immutable random forest. It is safe for concurrent use.
type Forest struct {
	classes  []string
	features []string
	trees    []Tree
}

type artifact struct {
	Classes  []string `json:"classes"`
	Features []string `json:"features"`
	Trees    []Tree   `json:"trees"`
}

// Schema is the class and feature order a caller was built against.
type Schema struct {
	Classes  []string
	Features []string
}

func (s Schema) check(classes, features []string) error {
	if !slices.Equal(classes, s.Classes) {
		return fmt.Errorf("%w: classes %q, want %q", ErrModelLoad, classes, s.Classes)
	}
	if !slices.Equal(features, s.Features) {
		return fmt.Errorf("%w: features %q, want %q", ErrModelLoad, features, s.Features)
	}
	return nil
}

// Load reads a forest artifact from path and rejects it unless its classes
// and features match want exactly, in order.
func Load(path string, want Schema) (*Forest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrModelLoad, path, err)
	}

	var a artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrModelLoad, path, err)
	}
	if err := want.check(a.Classes, a.Features); err != nil {
		return nil, err
	}

	return New(a.Classes, a.Features, a.Trees)
}

// New builds a forest after checking the trees are well formed.
func New(classes, features []string, trees []Tree) (*Forest, error) {
	if len(classes) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 classes, got %d", ErrModelLoad, len(classes))
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("%w: no features", ErrModelLoad)
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("%w: no trees", ErrModelLoad)
	}

	for ti, t := range trees {
		if err := validateTree(t, len(classes), len(features)); err != nil {
			return nil, fmt.Errorf("%w: tree %d: %v", ErrModelLoad, ti, err)
		}
	}

	return &Forest{
		classes:  append([]string(nil), classes...),
		features: append([]string(nil), features...),
		trees:    trees,
	}, nil
}

func validateTree(t Tree, nClasses, nFeatures int) error {
	n := len(t.Nodes)
	if n == 0 {
		return errors.New("empty tree")
	}
	for i, node := range t.Nodes {
		if len(node.Value) != nClasses {
			return fmt.Errorf("node %d: value has %d entries, want %d", i, len(node.Value), nClasses)
		}
		if err := checkDistribution(node.Value); err != nil {
			return fmt.Errorf("node %d: %v", i, err)
		}
		if node.isLeaf() {
			continue
		}
		if node.Feature < 0 || node.Feature >= nFeatures {
			return fmt.Errorf("node %d: feature index %d out of range", i, node.Feature)
		}
		// children always follow their parent, which also rules out cycles
		if node.Left <= i || node.Left >= n || node.Right <= i || node.Right >= n {
			return fmt.Errorf("node %d: child index out of range", i)
		}
	}
	return nil
}

// checkDistribution requires a probability vector: entries in [0,1]
// summing to 1.
func checkDistribution(value []float64) error {
	var sum float64
	for k, v := range value {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("value[%d] = %g outside [0,1]", k, v)
		}
		sum += v
	}
	if math.Abs(sum-1) > valueTolerance {
		return fmt.Errorf("value sums to %g, want 1", sum)
	}
	return nil
}

// Classes returns the class names in index order.
func (f *Forest) Classes() []string {
	return append([]string(nil), f.classes...)
}

// FeatureNames returns the feature names in input order.
func (f *Forest) FeatureNames() []string {
	return append([]string(nil), f.features...)
}

// NumFeatures is the expected length of a feature vector.
func (f *Forest) NumFeatures() int {
	return len(f.features)
}

// PredictProba averages the leaf class distributions of every tree.
func (f *Forest) PredictProba(x []float64) ([]float64, error) {
	if err := f.checkInput(x); err != nil {
		return nil, err
	}

	proba := make([]float64, len(f.classes))
	for _, t := range f.trees {
		leafNode := t.Nodes[t.walk(x, nil)]
		for k, v := range leafNode.Value {
			proba[k] += v
		}
	}
	for k := range proba {
		proba[k] /= float64(len(f.trees))
	}
	return proba, nil
}

// Predict returns the index of the most probable class.
func (f *Forest) Predict(x []float64) (int, error) {
	proba, err := f.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return argmax(proba), nil
}

func (f *Forest) checkInput(x []float64) error {
	if len(x) != len(f.features) {
		return fmt.Errorf("%w: got %d features, want %d", ErrInference, len(x), len(f.features))
	}
	return nil
}

// walk follows x from the root to a leaf and returns the leaf index.
// visit, when set, is called for every edge taken.
func (t Tree) walk(x []float64, visit func(parent, child int)) int {
	i := 0
	for !t.Nodes[i].isLeaf() {
		node := t.Nodes[i]
		next := node.Right
		if x[node.Feature] <= node.Threshold {
			next = node.Left
		}
		if visit != nil {
			visit(i, next)
		}
		i = next
	}
	return i
}

func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
