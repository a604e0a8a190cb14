package handlers

import (
	"errors"
	"net/http"

	"salonbook/services/booking"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps the workflow error taxonomy onto HTTP statuses. Upstream
// failures keep their detail in the logs only; clients get a generic retryable
// message.
func respondError(c *gin.Context, err error) {
	var (
		validation *booking.ValidationError
		conflict   *booking.ConflictError
		transition *booking.InvalidTransitionError
		notFound   *booking.NotFoundError
		upstream   *booking.UpstreamError
	)
	switch {
	case errors.As(err, &validation):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", validation.Message)
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":           "Slot no longer available",
			"conflictingTime": conflict.ConflictingTime,
			"detail":          conflict.Detail,
		})
	case errors.As(err, &transition):
		utils.JSONError(c, http.StatusUnprocessableEntity, "Invalid transition", transition.Error())
	case errors.As(err, &notFound):
		utils.JSONError(c, http.StatusNotFound, "Not found", notFound.Error())
	case errors.As(err, &upstream):
		getLogger(c).Error("upstream collaborator failed", zap.Error(err))
		utils.JSONError(c, http.StatusServiceUnavailable, "Service temporarily unavailable", "please retry")
	default:
		getLogger(c).Error("unexpected error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "an unexpected error occurred")
	}
}
