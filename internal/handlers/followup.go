package handlers

import (
	"context"
	"errors"
	"net/http"

	"undergraduation-admin/internal/logger"
	"undergraduation-admin/internal/models"
	"undergraduation-admin/internal/repository"
	"undergraduation-admin/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FollowupSender sends a follow-up and records it on the timeline.
type FollowupSender interface {
	Send(ctx context.Context, req models.FollowupRequest) (*models.FollowupResponse, error)
}

type FollowupHandler struct {
	sender FollowupSender
}

func NewFollowupHandler(sender FollowupSender) *FollowupHandler {
	return &FollowupHandler{sender: sender}
}

// SendFollowup godoc
// @Summary Send a follow-up e-mail to a student
// @Description The message is always recorded. A provider failure is reported as a skipped outcome with the reason, not as an error.
// @Tags followup
// @Security ApiKeyAuth
// @Param body body models.FollowupRequest true "Follow-up"
// @Success 200 {object} models.FollowupResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /followup [post]
func (h *FollowupHandler) SendFollowup(c *gin.Context) {
	var req models.FollowupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*requestTimeout)
	defer cancel()

	resp, err := h.sender.Send(ctx, req)
	if err != nil {
		switch {
		case services.IsValidation(err):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "validation_error",
				Message: err.Error(),
			})
		case errors.Is(err, repository.ErrNotFound):
			storeFailure(c, err, "Student")
		default:
			logger.Log.Error("follow-up failed", zap.String("student", req.StudentID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "server_error",
				Message: "Failed to record follow-up",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
