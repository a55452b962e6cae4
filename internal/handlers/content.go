// Package handlers implements the planner's HTTP endpoints.
package handlers

import (
	"context"
	"net/http"

	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	"github.com/barjames/funeral-planner/internal/models"
	"github.com/barjames/funeral-planner/internal/service"
	"github.com/gin-gonic/gin"
)

// ContentService is the content API's view of the service layer.
type ContentService interface {
	List(ctx context.Context, category string) ([]models.ContentItem, error)
	Create(ctx context.Context, category string, req models.CreateRequest) (*models.ContentItem, error)
	Delete(ctx context.Context, category, id string) (*models.DeleteResponse, error)
}

// ContentHandler serves /api/content/:category.
type ContentHandler struct {
	svc    ContentService
	logger infralogger.Logger
}

// NewContentHandler creates a content handler.
func NewContentHandler(svc ContentService, log infralogger.Logger) *ContentHandler {
	return &ContentHandler{svc: svc, logger: log}
}

// List handles GET /api/content/:category.
func (h *ContentHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// Create handles POST /api/content/:category.
func (h *ContentHandler) Create(c *gin.Context) {
	category := c.Param("category")
	if _, err := service.ResolveCategory(category); err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req models.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestLogger(c, h.logger).Debug("Invalid request body",
			infralogger.String("category", category),
			infralogger.Error(err),
		)
		badRequest(c, invalidBodyMessage)
		return
	}

	item, err := h.svc.Create(c.Request.Context(), category, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// Delete handles DELETE /api/content/:category/:id.
func (h *ContentHandler) Delete(c *gin.Context) {
	resp, err := h.svc.Delete(c.Request.Context(), c.Param("category"), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
