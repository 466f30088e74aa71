package dashboard

import (
	"encoding/json"
	"fmt"
	"html/template"

	grob "github.com/MetalBlueberry/go-plotly/graph_objects"

	"github.com/Skufu/GlucoRisk/internal/risk"
)

// gaugeSteps are the colour bands of the risk gauge, in percent.
var gaugeSteps = []map[string]any{
	{"range": []float64{0, 40}, "color": "green"},
	{"range": []float64{40, 70}, "color": "yellow"},
	{"range": []float64{70, 100}, "color": "red"},
}

// GaugeFigure draws the max class probability on a 0-100 dial.
func GaugeFigure(maxProb float64, label risk.Label) *grob.Fig {
	value := maxProb * 100
	return &grob.Fig{
		Data: grob.Traces{
			&grob.Indicator{
				Type:  grob.TraceTypeIndicator,
				Mode:  "gauge+number",
				Value: value,
				Title: &grob.IndicatorTitle{Text: grob.String(label.String())},
				Gauge: &grob.IndicatorGauge{
					Axis:  &grob.IndicatorGaugeAxis{Range: []float64{0, 100}},
					Bar:   &grob.IndicatorGaugeBar{Color: "black"},
					Steps: gaugeSteps,
					Threshold: &grob.IndicatorGaugeThreshold{
						Line:      &grob.IndicatorGaugeThresholdLine{Color: "blue", Width: 4},
						Thickness: 0.75,
						Value:     value,
					},
				},
			},
		},
		Layout: &grob.Layout{Height: 320},
	}
}

// ContributionFigure draws the ranked feature shares as a donut. It
// returns false when there is nothing to draw.
func ContributionFigure(contributions []risk.Contribution) (*grob.Fig, bool) {
	if len(contributions) == 0 {
		return nil, false
	}

	labels := make([]string, len(contributions))
	values := make([]float64, len(contributions))
	for i, c := range contributions {
		labels[i] = fmt.Sprintf("%s (%.1f%%)", c.Feature, c.Percent)
		values[i] = c.Percent
	}

	return &grob.Fig{
		Data: grob.Traces{
			&grob.Pie{
				Type:   grob.TraceTypePie,
				Labels: labels,
				Values: values,
				Hole:   0.4,
			},
		},
		Layout: &grob.Layout{
			Title: &grob.LayoutTitle{Text: "Feature Contribution to Prediction"},
		},
	}, true
}

// figureScript encodes a figure for inclusion in a <script> block.
// json.Marshal escapes <, > and &, so the output cannot close the script
// element.
func figureScript(fig *grob.Fig) (template.JS, error) {
	raw, err := json.Marshal(fig)
	if err != nil {
		return "", fmt.Errorf("encode figure: %w", err)
	}
	return template.JS(raw), nil
}
