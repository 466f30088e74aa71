package risk

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Skufu/GlucoRisk/internal/patient"
)

// Classifier predicts a diabetes class for a feature vector.
type Classifier interface {
	Predict(x []float64) (int, error)
	PredictProba(x []float64) ([]float64, error)
}

// Explainer produces per-feature attributions for a feature vector.
type Explainer interface {
	Explain(x []float64) ([][][]float64, error)
}

// Reasons an assessment carries no contribution ranking.
const (
	ExplanationOK             = "ok"
	ExplanationFailed         = "explainer_error"
	ExplanationShapeMismatch  = "shape_mismatch"
	ExplanationZeroAttributed = "zero_attribution"
)

// ClassProbability is the predicted probability of one class.
type ClassProbability struct {
	Class       Class
	Probability float64
}

// Assessment is the full interpretation of one patient submission.
type Assessment struct {
	Input          patient.Input
	Class          Class
	Probabilities  []ClassProbability
	MaxProbability float64
	Label          Label
	// Contributions is nil when no explanation is available.
	Contributions     []Contribution
	ExplanationStatus string
	Advice            Advice
}

// Assessor runs classification, tiering, explanation and advice selection.
type Assessor struct {
	classifier Classifier
	explainer  Explainer
	logger     *slog.Logger
}

// NewAssessor wires an assessor around a loaded model.
func NewAssessor(classifier Classifier, explainer Explainer, logger *slog.Logger) *Assessor {
	return &Assessor{
		classifier: classifier,
		explainer:  explainer,
		logger:     logger,
	}
}

// Assess interprets a single patient submission.
func (a *Assessor) Assess(ctx context.Context, in patient.Input) (*Assessment, error) {
	x := in.Features()

	idx, err := a.classifier.Predict(x)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	class, err := ClassFromIndex(idx)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	proba, err := a.classifier.PredictProba(x)
	if err != nil {
		return nil, fmt.Errorf("predict proba: %w", err)
	}
	if len(proba) != len(classNames) {
		return nil, fmt.Errorf("predict proba: got %d classes, want %d", len(proba), len(classNames))
	}

	probabilities := make([]ClassProbability, len(proba))
	maxProb := proba[0]
	for i, p := range proba {
		probabilities[i] = ClassProbability{Class: Class(i), Probability: p}
		if p > maxProb {
			maxProb = p
		}
	}

	label := Tier(class, maxProb)
	contributions, status := a.explain(ctx, x, class)

	return &Assessment{
		Input:             in,
		Class:             class,
		Probabilities:     probabilities,
		MaxProbability:    maxProb,
		Label:             label,
		Contributions:     contributions,
		ExplanationStatus: status,
		Advice:            AdviceFor(label),
	}, nil
}

// explain never fails the assessment; it reports why a ranking is missing.
func (a *Assessor) explain(ctx context.Context, x []float64, class Class) ([]Contribution, string) {
	values, err := a.explainer.Explain(x)
	if err != nil {
		a.logger.WarnContext(ctx, "explanation unavailable", "reason", ExplanationFailed, "error", err)
		return nil, ExplanationFailed
	}

	attributions, err := ExtractAttribution(values, int(class), len(patient.FeatureNames))
	if err != nil {
		a.logger.WarnContext(ctx, "explanation unavailable", "reason", ExplanationShapeMismatch, "error", err)
		return nil, ExplanationShapeMismatch
	}

	ranked, ok := RankContributions(patient.FeatureNames, attributions)
	if !ok {
		a.logger.DebugContext(ctx, "explanation unavailable", "reason", ExplanationZeroAttributed)
		return nil, ExplanationZeroAttributed
	}
	return ranked, ExplanationOK
}
