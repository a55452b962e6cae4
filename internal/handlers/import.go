package handlers

import (
	"fmt"
	"net/http"

	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	"github.com/barjames/funeral-planner/internal/importer"
	"github.com/barjames/funeral-planner/internal/service"
	"github.com/gin-gonic/gin"
)

// importFormField is the multipart field carrying the workbook.
const importFormField = "file"

// ImportHandler serves spreadsheet uploads.
type ImportHandler struct {
	creator  importer.Creator
	maxBytes int64
	logger   infralogger.Logger
}

// NewImportHandler creates an import handler accepting files up to maxBytes.
func NewImportHandler(creator importer.Creator, maxBytes int64, log infralogger.Logger) *ImportHandler {
	return &ImportHandler{creator: creator, maxBytes: maxBytes, logger: log}
}

// Import handles POST /api/content/:category/import. It answers 201 when at
// least one row was imported and 400 otherwise, always with the per-row errors.
func (h *ImportHandler) Import(c *gin.Context) {
	cat, err := service.ResolveCategory(c.Param("category"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	fileHeader, err := c.FormFile(importFormField)
	if err != nil {
		requestLogger(c, h.logger).Debug("Import upload rejected", infralogger.Error(err))
		badRequest(c, fmt.Sprintf("Missing required field: %s (an .xlsx upload up to %d bytes)", importFormField, h.maxBytes))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, h.logger, fmt.Errorf("open upload: %w", err))
		return
	}
	defer func() { _ = file.Close() }()

	result, err := importer.Import(c.Request.Context(), h.creator, cat, file)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	requestLogger(c, h.logger).Info("Spreadsheet imported",
		infralogger.String("category", cat.Key),
		infralogger.String("filename", fileHeader.Filename),
		infralogger.Int("imported", result.Imported),
		infralogger.Int("rejected", len(result.Errors)),
	)

	status := http.StatusCreated
	if result.Imported == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, result)
}
