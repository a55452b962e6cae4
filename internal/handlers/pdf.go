package handlers

import (
	"context"
	"fmt"
	"net/http"

	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	"github.com/barjames/funeral-planner/internal/document"
	"github.com/barjames/funeral-planner/internal/models"
	"github.com/gin-gonic/gin"
)

// pdfContentType is the media type of generated plans.
const pdfContentType = "application/pdf"

// DocumentGenerator renders a wishlist into a plan document.
type DocumentGenerator interface {
	Generate(ctx context.Context, wishlist models.Wishlist) (*document.Result, error)
}

// PDFHandler serves /api/pdf.
type PDFHandler struct {
	gen    DocumentGenerator
	logger infralogger.Logger
}

// NewPDFHandler creates a PDF handler.
func NewPDFHandler(gen DocumentGenerator, log infralogger.Logger) *PDFHandler {
	return &PDFHandler{gen: gen, logger: log}
}

// Generate handles POST /api/pdf/generate.
func (h *PDFHandler) Generate(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestLogger(c, h.logger).Debug("Invalid generate request", infralogger.Error(err))
		badRequest(c, invalidBodyMessage)
		return
	}

	result, err := h.gen.Generate(c.Request.Context(), req.Wishlist)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, pdfContentType, result.Content)
}
