package handlers

import (
	"errors"
	"net/http"

	infragin "github.com/barjames/funeral-planner/infrastructure/gin"
	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	"github.com/barjames/funeral-planner/internal/importer"
	"github.com/barjames/funeral-planner/internal/models"
	"github.com/barjames/funeral-planner/internal/service"
	"github.com/gin-gonic/gin"
)

// invalidBodyMessage answers bodies that are not valid JSON for the endpoint.
const invalidBodyMessage = "Invalid request body"

// respondError maps err to a status and a {message} body. Anything that is
// not a validation or not-found error is logged and answered with the
// generic server error, never with its detail.
func respondError(c *gin.Context, log infralogger.Logger, err error) {
	log = requestLogger(c, log)

	var (
		ve *service.ValidationError
		nf *service.NotFoundError
	)

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: ve.Message})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: nf.Message})
	case errors.Is(err, importer.ErrInvalidWorkbook):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
	default:
		log.Error("Request failed",
			infralogger.String("method", c.Request.Method),
			infralogger.String("path", c.Request.URL.Path),
			infralogger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: infragin.InternalErrorMessage})
	}
}

// requestLogger returns the logger the request middleware scoped to this
// request, falling back to the handler's own.
func requestLogger(c *gin.Context, base infralogger.Logger) infralogger.Logger {
	return infralogger.FromContextOr(c.Request.Context(), base)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: msg})
}
