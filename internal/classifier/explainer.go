package classifier

import "fmt"

// Layout describes how an attribution tensor is indexed.
type Layout int

const (
	// LayoutClassFirst indexes attributions as [class][sample][feature].
	LayoutClassFirst Layout = iota
	// LayoutSampleFirst indexes attributions as [sample][feature][class].
	LayoutSampleFirst
)

// ParseLayout maps a configuration value to a Layout.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "", "class-first":
		return LayoutClassFirst, nil
	case "sample-first":
		return LayoutSampleFirst, nil
	default:
		return 0, fmt.Errorf("unknown explainer layout %q", s)
	}
}

func (l Layout) String() string {
	if l == LayoutSampleFirst {
		return "sample-first"
	}
	return "class-first"
}

// Explainer attributes a forest prediction to its input features by
// crediting each split on the decision path with the change in class
// value it causes. Per-tree credits are averaged over the forest, so
// ExpectedValue(k) plus the attributions for class k equals the
// predicted probability of k.
type Explainer struct {
	forest *Forest
	layout Layout
}

// NewExplainer returns an explainer for forest emitting the given layout.
func NewExplainer(forest *Forest, layout Layout) *Explainer {
	return &Explainer{forest: forest, layout: layout}
}

// ExpectedValue is the forest output for class before any split is taken.
func (e *Explainer) ExpectedValue(class int) float64 {
	var sum float64
	for _, t := range e.forest.trees {
		sum += t.Nodes[0].Value[class]
	}
	return sum / float64(len(e.forest.trees))
}

// Explain computes attributions for a single sample x.
func (e *Explainer) Explain(x []float64) ([][][]float64, error) {
	if err := e.forest.checkInput(x); err != nil {
		return nil, err
	}

	nClasses := len(e.forest.classes)
	nFeatures := len(e.forest.features)

	// phi[class][feature]
	phi := make([][]float64, nClasses)
	for k := range phi {
		phi[k] = make([]float64, nFeatures)
	}

	scale := 1 / float64(len(e.forest.trees))
	for _, t := range e.forest.trees {
		t.walk(x, func(parent, child int) {
			feature := t.Nodes[parent].Feature
			for k := 0; k < nClasses; k++ {
				phi[k][feature] += (t.Nodes[child].Value[k] - t.Nodes[parent].Value[k]) * scale
			}
		})
	}

	if e.layout == LayoutSampleFirst {
		sample := make([][]float64, nFeatures)
		for j := range sample {
			sample[j] = make([]float64, nClasses)
			for k := 0; k < nClasses; k++ {
				sample[j][k] = phi[k][j]
			}
		}
		return [][][]float64{sample}, nil
	}

	out := make([][][]float64, nClasses)
	for k := range out {
		out[k] = [][]float64{phi[k]}
	}
	return out, nil
}
