package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	holdRepo "salonbook/database/repository/hold"
	"salonbook/models"
	bookingSvc "salonbook/services/booking"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeHoldReap is the asynq task type that physically removes an expired hold.
const TypeHoldReap = "hold:reap"

// HoldReapPayload identifies the hold a reap task targets.
type HoldReapPayload struct {
	SalonID string `json:"salonId"`
	Date    string `json:"date"`
	HoldID  string `json:"holdId"`
}

// HoldHandler exposes the hold API: create, release, list-active and the
// advisory availability check.
type HoldHandler struct {
	Holds   holdRepo.HoldRepository
	Booking bookingSvc.BookingWorkflowService
	Queue   *asynq.Client
}

// NewHoldHandler constructs a HoldHandler.
func NewHoldHandler(holds holdRepo.HoldRepository, booking bookingSvc.BookingWorkflowService, queue *asynq.Client) *HoldHandler {
	return &HoldHandler{Holds: holds, Booking: booking, Queue: queue}
}

// CreateHoldHandler handles POST /api/holds. The store never rejects for
// conflicts; clients run the availability check around slot selection.
func (h *HoldHandler) CreateHoldHandler(c *gin.Context) {
	logger := getLogger(c)
	var req models.CreateHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "date must be YYYY-MM-DD")
		return
	}

	hold := &models.Hold{
		SalonID:    req.SalonID,
		BranchID:   req.BranchID,
		Date:       req.Date,
		SessionID:  req.SessionID,
		Services:   req.Services,
		CustomerID: req.CustomerID,
	}
	if err := h.Holds.Create(c.Request.Context(), hold); err != nil {
		logger.Error("failed to create hold", zap.Error(err))
		utils.JSONError(c, http.StatusServiceUnavailable, "Service temporarily unavailable", "please retry")
		return
	}

	h.scheduleReap(c, hold)

	c.JSON(http.StatusCreated, gin.H{
		"holdId":              hold.ID,
		"expiresAt":           hold.ExpiresAt,
		"holdDurationSeconds": int(utils.HoldDuration.Seconds()),
	})
}

// scheduleReap enqueues the physical cleanup of the hold once its logical
// expiry plus grace has passed. Correctness does not depend on it; readers
// filter expired holds themselves.
func (h *HoldHandler) scheduleReap(c *gin.Context, hold *models.Hold) {
	if h.Queue == nil {
		return
	}
	payload, err := json.Marshal(HoldReapPayload{SalonID: hold.SalonID, Date: hold.Date, HoldID: hold.ID})
	if err != nil {
		return
	}
	task := asynq.NewTask(TypeHoldReap, payload)
	if _, err := h.Queue.EnqueueContext(c.Request.Context(), task,
		asynq.ProcessIn(utils.HoldDuration+utils.HoldStorageGrace)); err != nil {
		getLogger(c).Warn("failed to schedule hold reap", zap.String("holdId", hold.ID), zap.Error(err))
	}
}

// ReleaseHoldHandler handles DELETE /api/holds/:holdID. Releasing a hold the
// session does not own is a no-op, so the response never reveals whether the
// id exists.
func (h *HoldHandler) ReleaseHoldHandler(c *gin.Context) {
	holdID := c.Param("holdID")
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "sessionId is required")
		return
	}
	if err := h.Holds.Release(c.Request.Context(), holdID, sessionID); err != nil {
		getLogger(c).Error("failed to release hold", zap.String("holdId", holdID), zap.Error(err))
		utils.JSONError(c, http.StatusServiceUnavailable, "Service temporarily unavailable", "please retry")
		return
	}
	c.JSON(http.StatusOK, gin.H{"released": true})
}

// ReleaseAllHoldsHandler handles DELETE /api/holds (navigation-away/cancel).
func (h *HoldHandler) ReleaseAllHoldsHandler(c *gin.Context) {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "sessionId is required")
		return
	}
	if err := h.Holds.ReleaseAll(c.Request.Context(), sessionID); err != nil {
		getLogger(c).Error("failed to release session holds", zap.String("sessionId", sessionID), zap.Error(err))
		utils.JSONError(c, http.StatusServiceUnavailable, "Service temporarily unavailable", "please retry")
		return
	}
	c.JSON(http.StatusOK, gin.H{"released": true})
}

// ListActiveHoldsHandler handles GET /api/holds. The response may include
// holds past their logical expiry; clients must re-filter expiresAt > now.
func (h *HoldHandler) ListActiveHoldsHandler(c *gin.Context) {
	salonID := c.Query("salonId")
	date := c.Query("date")
	if salonID == "" || date == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "salonId and date are required")
		return
	}
	holds, err := h.Holds.ListActive(c.Request.Context(), salonID, date)
	if err != nil {
		getLogger(c).Error("failed to list holds", zap.String("salonId", salonID), zap.Error(err))
		utils.JSONError(c, http.StatusServiceUnavailable, "Service temporarily unavailable", "please retry")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"holds":               holds,
		"holdDurationSeconds": int(utils.HoldDuration.Seconds()),
	})
}

// WatchHoldsHandler handles GET /api/holds/watch: a server-sent event stream
// of the active hold set for a salon/date, re-sent on every change plus a
// periodic refresh so logical expiries propagate without a change event.
func (h *HoldHandler) WatchHoldsHandler(c *gin.Context) {
	salonID := c.Query("salonId")
	date := c.Query("date")
	if salonID == "" || date == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "salonId and date are required")
		return
	}

	changes := make(chan struct{}, 1)
	unsubscribe, err := h.Holds.Subscribe(c.Request.Context(), salonID, date, func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	if err != nil {
		getLogger(c).Error("failed to subscribe to hold changes", zap.String("salonId", salonID), zap.Error(err))
		utils.JSONError(c, http.StatusServiceUnavailable, "Service temporarily unavailable", "please retry")
		return
	}
	defer unsubscribe()

	first := true
	c.Stream(func(w io.Writer) bool {
		if !first {
			select {
			case <-c.Request.Context().Done():
				return false
			case <-changes:
			case <-time.After(30 * time.Second):
			}
		}
		first = false

		holds, err := h.Holds.ListActive(c.Request.Context(), salonID, date)
		if err != nil {
			getLogger(c).Error("failed to list holds for stream", zap.String("salonId", salonID), zap.Error(err))
			return false
		}
		c.SSEvent("holds", gin.H{
			"holds":               holds,
			"holdDurationSeconds": int(utils.HoldDuration.Seconds()),
		})
		return true
	})
}

// CheckAvailabilityHandler handles POST /api/holds/check: the advisory
// availability check a client runs while the customer selects slots.
func (h *HoldHandler) CheckAvailabilityHandler(c *gin.Context) {
	var req struct {
		SalonID    string                 `json:"salonId" binding:"required"`
		BranchID   string                 `json:"branchId" binding:"required"`
		Date       string                 `json:"date" binding:"required"`
		SessionID  string                 `json:"sessionId"`
		Candidates []models.SlotCandidate `json:"candidates" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	results, err := h.Booking.CheckSlots(c.Request.Context(), req.SalonID, req.BranchID, req.Date, req.SessionID, req.Candidates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
