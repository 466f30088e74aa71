// Package dashboard serves the patient form and renders risk assessments.
package dashboard

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Skufu/GlucoRisk/internal/observability"
	"github.com/Skufu/GlucoRisk/internal/patient"
	"github.com/Skufu/GlucoRisk/internal/risk"
)

//go:embed templates/*.html static/*
var assets embed.FS

const pageTemplate = "index.html"

// Assessor interprets a patient submission.
type Assessor interface {
	Assess(ctx context.Context, in patient.Input) (*risk.Assessment, error)
}

// Handler serves the dashboard page.
type Handler struct {
	assessor Assessor
	logger   *slog.Logger
}

// NewHandler creates a dashboard handler.
func NewHandler(assessor Assessor, logger *slog.Logger) *Handler {
	return &Handler{assessor: assessor, logger: logger}
}

// Register installs the page template, static assets and dashboard routes.
func (h *Handler) Register(router *gin.Engine) error {
	tmpl, err := template.ParseFS(assets, "templates/*.html")
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(assets, "static")
	if err != nil {
		return fmt.Errorf("static assets: %w", err)
	}

	router.SetHTMLTemplate(tmpl)
	router.StaticFS("/static", http.FS(static))
	router.GET("/", h.Index)
	router.POST("/predict", h.Predict)
	return nil
}

// Index renders an empty form with default values.
func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, pageTemplate, pageView{Form: newFormView(patient.Defaults(), nil)})
}

// Predict assesses the submitted form and renders the results below it.
func (h *Handler) Predict(c *gin.Context) {
	var in patient.Input
	if err := c.ShouldBind(&in); err != nil {
		c.HTML(http.StatusUnprocessableEntity, pageTemplate, pageView{
			Form: newFormView(in, validationMessages(err)),
		})
		return
	}

	ctx := c.Request.Context()
	logger := h.logger.With("request_id", observability.GetRequestID(c))

	assessment, err := h.assessor.Assess(ctx, in)
	if err != nil {
		logger.ErrorContext(ctx, "assessment failed", "error", err)
		h.renderError(c, in)
		return
	}

	result, err := newResultView(assessment)
	if err != nil {
		logger.ErrorContext(ctx, "render assessment", "error", err)
		h.renderError(c, in)
		return
	}

	observability.RecordAssessment(
		assessment.Label.String(),
		assessment.ExplanationStatus,
		assessment.Contributions != nil,
	)
	logger.InfoContext(ctx, "assessment completed",
		"label", assessment.Label.String(),
		"max_probability", assessment.MaxProbability,
		"explanation", assessment.ExplanationStatus,
	)

	c.HTML(http.StatusOK, pageTemplate, pageView{
		Form:   newFormView(in, nil),
		Result: result,
	})
}

func (h *Handler) renderError(c *gin.Context, in patient.Input) {
	c.HTML(http.StatusInternalServerError, pageTemplate, pageView{
		Form:  newFormView(in, nil),
		Error: "The prediction could not be completed. Please try again.",
	})
}
