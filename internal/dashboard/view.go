package dashboard

import (
	"errors"
	"fmt"
	"html/template"

	"github.com/go-playground/validator/v10"

	"github.com/Skufu/GlucoRisk/internal/patient"
	"github.com/Skufu/GlucoRisk/internal/risk"
)

type pageView struct {
	Form   formView
	Result *resultView
	Error  string
}

type formView struct {
	Input           patient.Input
	Errors          map[string]string
	SexOptions      []string
	YesNoOptions    []string
	ActivityOptions []string
}

type probabilityView struct {
	Class   string
	Percent string
}

type resultView struct {
	Label         string
	Probabilities []probabilityView
	Gauge         template.JS
	Contributions template.JS
	Lifestyle     []patient.LifestyleItem
	Advice        risk.Advice
}

func newFormView(in patient.Input, errs map[string]string) formView {
	return formView{
		Input:           in,
		Errors:          errs,
		SexOptions:      patient.SexOptions,
		YesNoOptions:    patient.YesNoOptions,
		ActivityOptions: patient.ActivityOptions,
	}
}

func newResultView(a *risk.Assessment) (*resultView, error) {
	probabilities := make([]probabilityView, len(a.Probabilities))
	for i, p := range a.Probabilities {
		probabilities[i] = probabilityView{
			Class:   p.Class.String(),
			Percent: fmt.Sprintf("%.1f%%", p.Probability*100),
		}
	}

	gauge, err := figureScript(GaugeFigure(a.MaxProbability, a.Label))
	if err != nil {
		return nil, err
	}

	view := &resultView{
		Label:         a.Label.String(),
		Probabilities: probabilities,
		Gauge:         gauge,
		Lifestyle:     a.Input.Lifestyle(),
		Advice:        a.Advice,
	}

	if fig, ok := ContributionFigure(a.Contributions); ok {
		if view.Contributions, err = figureScript(fig); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// fieldLabels maps patient.Input fields to their form labels.
var fieldLabels = map[string]string{
	"FBS":           "Fasting Blood Sugar (mg/dL)",
	"BMI":           "BMI",
	"Age":           "Age",
	"WaistCM":       "Waist Circumference (cm)",
	"HipCM":         "Hip Circumference (cm)",
	"Sex":           "Sex",
	"Smoking":       "Tobacco Smoking",
	"Alcohol":       "Alcohol Consumption",
	"Activity":      "Physical Activity Level",
	"FamilyHistory": "Family History of Diabetes",
}

// validationMessages turns a binding error into per-field messages keyed
// by patient.Input field name.
func validationMessages(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"form": "The form could not be read: check that every value is a number."}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fieldLabels[fe.Field()]
		if name == "" {
			name = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = fmt.Sprintf("%s is required", name)
		case "gte":
			out[fe.Field()] = fmt.Sprintf("%s must be at least %s", name, fe.Param())
		case "lte":
			out[fe.Field()] = fmt.Sprintf("%s must be at most %s", name, fe.Param())
		case "oneof":
			out[fe.Field()] = fmt.Sprintf("%s must be one of: %s", name, fe.Param())
		default:
			out[fe.Field()] = fmt.Sprintf("%s is invalid", name)
		}
	}
	return out
}
