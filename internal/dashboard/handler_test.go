package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/GlucoRisk/internal/patient"
	"github.com/Skufu/GlucoRisk/internal/risk"
)

type stubAssessor struct {
	assessment *risk.Assessment
	err        error
	got        *patient.Input
}

func (s *stubAssessor) Assess(_ context.Context, in patient.Input) (*risk.Assessment, error) {
	s.got = &in
	if s.err != nil {
		return nil, s.err
	}
	a := *s.assessment
	a.Input = in
	return &a, nil
}

func diabetesAssessment(contributions []risk.Contribution) *risk.Assessment {
	return &risk.Assessment{
		Class: risk.ClassDiabetes,
		Probabilities: []risk.ClassProbability{
			{Class: risk.ClassDiabetes, Probability: 0.82},
			{Class: risk.ClassNonDiabetes, Probability: 0.10},
			{Class: risk.ClassPreDiabetes, Probability: 0.08},
		},
		MaxProbability:    0.82,
		Label:             risk.LabelDiabetesHigh,
		Contributions:     contributions,
		ExplanationStatus: risk.ExplanationOK,
		Advice:            risk.AdviceFor(risk.LabelDiabetesHigh),
	}
}

func newTestRouter(t *testing.T, assessor Assessor) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	router := gin.New()
	require.NoError(t, NewHandler(assessor, logger).Register(router))
	return router
}

func validForm() url.Values {
	return url.Values{
		"fbs":            {"180"},
		"bmi":            {"32"},
		"age":            {"55"},
		"wc":             {"110"},
		"hc":             {"105"},
		"sex":            {"Female"},
		"smoking":        {"No"},
		"alcohol":        {"No"},
		"activity":       {"Moderate"},
		"family_history": {"Yes"},
	}
}

func postForm(router *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIndexRendersDefaults(t *testing.T) {
	router := newTestRouter(t, &stubAssessor{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `name="fbs" min="50" max="300" step="0.1" value="100.0"`)
	assert.Contains(t, body, `name="age" min="18" max="100" step="1" value="50"`)
	assert.Contains(t, body, `name="hc" min="70" max="150" step="0.1" value="100.0"`)
	assert.NotContains(t, body, "Prediction Results")
}

func TestPredictRendersAssessment(t *testing.T) {
	stub := &stubAssessor{assessment: diabetesAssessment([]risk.Contribution{
		{Feature: "FBS", Percent: 40},
		{Feature: "HC", Percent: 30},
		{Feature: "BMI", Percent: 20},
		{Feature: "Age", Percent: 10},
		{Feature: "WC", Percent: 0},
	})}
	router := newTestRouter(t, stub)

	w := postForm(router, validForm())

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, stub.got)
	assert.Equal(t, []float64{180, 32, 55, 110, 105}, stub.got.Features())
	assert.Equal(t, "Moderate", stub.got.Activity)

	body := w.Body.String()
	assert.Contains(t, body, "Predicted Status: Diabetes (High Risk)")
	assert.Contains(t, body, "82.0%")
	assert.Contains(t, body, "10.0%")
	assert.Contains(t, body, "8.0%")
	assert.Contains(t, body, `data-advice="diabetic"`)
	assert.Contains(t, body, `id="gauge"`)
	assert.Contains(t, body, `id="contributions"`)
	assert.Contains(t, body, `FBS (40.0%)`)
	assert.Contains(t, body, "Physical Activity: <strong>Moderate</strong>")
}

func TestPredictOmitsContributionChart(t *testing.T) {
	router := newTestRouter(t, &stubAssessor{assessment: diabetesAssessment(nil)})

	w := postForm(router, validForm())

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `id="gauge"`)
	assert.NotContains(t, body, `id="contributions"`)
	assert.Contains(t, body, `data-advice="diabetic"`)
}

func TestPredictValidation(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		message string
	}{
		{"fbs too high", "fbs", "400", "Fasting Blood Sugar (mg/dL) must be at most 300"},
		{"age too low", "age", "12", "Age must be at least 18"},
		{"hip too low", "hc", "60", "Hip Circumference (cm) must be at least 70"},
		{"unknown activity", "activity", "Extreme", "Physical Activity Level must be one of: Low Moderate High"},
		{"missing sex", "sex", "", "Sex is required"},
		{"not a number", "bmi", "heavy", "The form could not be read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubAssessor{assessment: diabetesAssessment(nil)}
			router := newTestRouter(t, stub)

			form := validForm()
			form.Set(tt.field, tt.value)
			w := postForm(router, form)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
			assert.Nil(t, stub.got, "assessor must not run on invalid input")
		})
	}
}

func TestPredictAssessorFailure(t *testing.T) {
	router := newTestRouter(t, &stubAssessor{err: errors.New("inference failed")})

	w := postForm(router, validForm())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "The prediction could not be completed")
	assert.NotContains(t, w.Body.String(), "Prediction Results")
}

func TestStaticStylesheet(t *testing.T) {
	router := newTestRouter(t, &stubAssessor{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/styles.css", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ".banner")
}
