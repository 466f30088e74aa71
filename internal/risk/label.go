// Package risk turns classifier output into a risk tier, a ranked feature
// breakdown and lifestyle advice.
package risk

import (
	"fmt"

	"github.com/Skufu/GlucoRisk/internal/classifier"
	"github.com/Skufu/GlucoRisk/internal/patient"
)

// Class is a classifier output class. Values match the model's class index.
type Class int

const (
	ClassDiabetes Class = iota
	ClassNonDiabetes
	ClassPreDiabetes
)

var classNames = [...]string{"Diabetes", "Non-Diabetes", "Pre-Diabetes"}

// ClassFromIndex validates a raw class index.
func ClassFromIndex(i int) (Class, error) {
	if i < 0 || i >= len(classNames) {
		return 0, fmt.Errorf("invalid class index: %d", i)
	}
	return Class(i), nil
}

// ModelSchema is the class and feature order a model artifact must carry
// to be served.
func ModelSchema() classifier.Schema {
	return classifier.Schema{
		Classes:  append([]string(nil), classNames[:]...),
		Features: append([]string(nil), patient.FeatureNames...),
	}
}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return fmt.Sprintf("Class(%d)", int(c))
	}
	return classNames[c]
}

// Probability thresholds at or above which a prediction is high risk.
const (
	DiabetesHighRiskThreshold    = 0.70
	PreDiabetesHighRiskThreshold = 0.60
)

// Label is one of the five risk tiers.
type Label struct {
	class Class
	high  bool
}

var (
	LabelDiabetesHigh    = Label{class: ClassDiabetes, high: true}
	LabelDiabetesLow     = Label{class: ClassDiabetes}
	LabelPreDiabetesHigh = Label{class: ClassPreDiabetes, high: true}
	LabelPreDiabetesLow  = Label{class: ClassPreDiabetes}
	LabelNonDiabetesLow  = Label{class: ClassNonDiabetes}
)

// Labels lists every tier.
var Labels = []Label{
	LabelDiabetesHigh,
	LabelDiabetesLow,
	LabelPreDiabetesHigh,
	LabelPreDiabetesLow,
	LabelNonDiabetesLow,
}

// Tier derives the risk label from the predicted class and the largest
// class probability. Non-Diabetes has no high-risk variant.
func Tier(class Class, maxProb float64) Label {
	switch class {
	case ClassDiabetes:
		if maxProb >= DiabetesHighRiskThreshold {
			return LabelDiabetesHigh
		}
		return LabelDiabetesLow
	case ClassPreDiabetes:
		if maxProb >= PreDiabetesHighRiskThreshold {
			return LabelPreDiabetesHigh
		}
		return LabelPreDiabetesLow
	default:
		return LabelNonDiabetesLow
	}
}

// LabelFromString parses the display form of a label.
func LabelFromString(s string) (Label, error) {
	for _, l := range Labels {
		if l.String() == s {
			return l, nil
		}
	}
	return Label{}, fmt.Errorf("invalid risk label: %q", s)
}

// Class returns the class the label was derived from.
func (l Label) Class() Class {
	return l.class
}

// HighRisk reports whether the label carries the high-risk qualifier.
func (l Label) HighRisk() bool {
	return l.high
}

func (l Label) String() string {
	qualifier := "Low Risk"
	if l.high {
		qualifier = "High Risk"
	}
	return fmt.Sprintf("%s (%s)", l.class, qualifier)
}

// Equal checks equality with another Label.
func (l Label) Equal(other Label) bool {
	return l == other
}
