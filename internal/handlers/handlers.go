package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"undergraduation-admin/internal/logger"
	"undergraduation-admin/internal/models"
	"undergraduation-admin/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const requestTimeout = 5 * time.Second

// requestContext bounds store calls made on behalf of a request. It keeps the
// request context so the session and trace span travel with it.
func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}

// storeFailure maps repository errors to responses. what names the record,
// e.g. "Student".
func storeFailure(c *gin.Context, err error, what string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: what + " not found",
		})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, models.ErrorResponse{
			Error:   "timeout",
			Message: "Storage did not respond in time",
		})
	default:
		logger.Log.Error("store error", zap.String("record", what), zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "server_error",
			Message: "Failed to process " + what,
		})
	}
}
