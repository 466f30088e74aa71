package risk

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrAttributionShape is returned when an attribution tensor matches
// neither supported layout.
var ErrAttributionShape = errors.New("unrecognised attribution shape")

// Contribution is the share of a prediction attributed to one feature.
type Contribution struct {
	Feature string
	Percent float64
}

// RankContributions converts signed attributions into percentages of
// their absolute total, sorted descending. Equal percentages keep the
// input order. It returns false when every attribution is zero, since no
// meaningful share exists in that case.
func RankContributions(names []string, attributions []float64) ([]Contribution, bool) {
	if len(names) != len(attributions) {
		return nil, false
	}

	var total float64
	abs := make([]float64, len(attributions))
	for i, v := range attributions {
		abs[i] = math.Abs(v)
		total += abs[i]
	}
	if total == 0 {
		return nil, false
	}

	out := make([]Contribution, len(names))
	for i, name := range names {
		out[i] = Contribution{Feature: name, Percent: abs[i] / total * 100}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Percent > out[j].Percent
	})
	return out, true
}

// ExtractAttribution pulls the attribution vector of one class out of an
// explainer tensor. The tensor is first read as [class][sample][feature];
// if that does not fit it is read as [sample][feature][class]. Only the
// first sample is used.
func ExtractAttribution(values [][][]float64, class, nFeatures int) ([]float64, error) {
	if v, err := classFirst(values, class, nFeatures); err == nil {
		return v, nil
	}
	v, err := sampleFirst(values, class, nFeatures)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAttributionShape, err)
	}
	return v, nil
}

func classFirst(values [][][]float64, class, nFeatures int) ([]float64, error) {
	if class < 0 || class >= len(values) {
		return nil, fmt.Errorf("class index %d out of range %d", class, len(values))
	}
	if len(values[class]) == 0 {
		return nil, errors.New("no samples")
	}
	row := values[class][0]
	if len(row) != nFeatures {
		return nil, fmt.Errorf("got %d features, want %d", len(row), nFeatures)
	}
	return append([]float64(nil), row...), nil
}

func sampleFirst(values [][][]float64, class, nFeatures int) ([]float64, error) {
	if len(values) == 0 {
		return nil, errors.New("no samples")
	}
	rows := values[0]
	if len(rows) != nFeatures {
		return nil, fmt.Errorf("got %d features, want %d", len(rows), nFeatures)
	}
	out := make([]float64, nFeatures)
	for j, row := range rows {
		if class < 0 || class >= len(row) {
			return nil, fmt.Errorf("feature %d: class index %d out of range %d", j, class, len(row))
		}
		out[j] = row[class]
	}
	return out, nil
}
