// Package api wires the planner's HTTP routes.
package api

import (
	"net/http"
	"strings"

	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	"github.com/barjames/funeral-planner/internal/handlers"
	"github.com/barjames/funeral-planner/internal/importer"
	"github.com/barjames/funeral-planner/internal/metrics"
	"github.com/barjames/funeral-planner/internal/middleware"
	"github.com/barjames/funeral-planner/internal/models"
	"github.com/gin-gonic/gin"
)

// notFoundMessage answers unknown API paths.
const notFoundMessage = "Not found"

// Dependencies are the collaborators the routes need.
type Dependencies struct {
	Content   handlers.ContentService
	Importer  importer.Creator
	Generator handlers.DocumentGenerator
	Metrics   *metrics.Metrics
	Logger    infralogger.Logger

	PDFRatePerMinute int
	ImportMaxBytes   int64
	// StaticDir, when set, is served for every non-API GET that matches no route.
	StaticDir string
}

// SetupRoutes returns the route installer passed to the server builder.
func SetupRoutes(deps Dependencies) func(*gin.Engine) {
	return func(router *gin.Engine) {
		if deps.Metrics != nil {
			router.Use(deps.Metrics.HTTP.Middleware())
			router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
		}

		contentHandler := handlers.NewContentHandler(deps.Content, deps.Logger)
		importHandler := handlers.NewImportHandler(deps.Importer, deps.ImportMaxBytes, deps.Logger)
		pdfHandler := handlers.NewPDFHandler(deps.Generator, deps.Logger)

		apiGroup := router.Group("/api")

		content := apiGroup.Group("/content/:category")
		content.GET("", contentHandler.List)
		content.POST("", contentHandler.Create)
		content.POST("/import", importHandler.Import)
		content.DELETE("/:id", contentHandler.Delete)

		apiGroup.POST("/pdf/generate",
			middleware.RateLimit(deps.PDFRatePerMinute, deps.Logger),
			pdfHandler.Generate,
		)

		router.NoRoute(noRoute(deps.StaticDir))
	}
}

func noRoute(staticDir string) gin.HandlerFunc {
	var files http.Handler
	if staticDir != "" {
		files = http.FileServer(http.Dir(staticDir))
	}

	return func(c *gin.Context) {
		method := c.Request.Method
		isRead := method == http.MethodGet || method == http.MethodHead
		if files != nil && isRead && !strings.HasPrefix(c.Request.URL.Path, "/api/") {
			files.ServeHTTP(c.Writer, c.Request)
			return
		}
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: notFoundMessage})
	}
}
