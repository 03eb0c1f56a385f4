package handlers

import (
	"net/http"
	"time"

	sessionRepo "reflink/database/repository/session"
	"reflink/models"
	"reflink/services/session"
	"reflink/utils"

	"github.com/gin-gonic/gin"
)

// SessionHandler serves the booking and lifecycle endpoints.
type SessionHandler struct {
	Service session.SessionService
}

// NewSessionHandler builds the session handler.
func NewSessionHandler(svc session.SessionService) *SessionHandler {
	return &SessionHandler{Service: svc}
}

// BookHandler handles POST /api/sessions.
func (h *SessionHandler) BookHandler(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		return
	}

	var req struct {
		ConsultingOfferID string    `json:"consultingOfferId" binding:"required"`
		ScheduledAt       time.Time `json:"scheduledAt" binding:"required"`
		Notes             string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid booking request", err.Error())
		return
	}

	detail, err := h.Service.Book(c.Request.Context(), session.BookInput{
		OfferID:     req.ConsultingOfferID,
		EmployeeID:  userID,
		ScheduledAt: req.ScheduledAt,
		Notes:       req.Notes,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

// ListHandler handles GET /api/sessions?type={all|as-jobseeker|as-employee}.
func (h *SessionHandler) ListHandler(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		return
	}

	role := sessionRepo.ListRole(c.DefaultQuery("type", string(sessionRepo.RoleAll)))
	switch role {
	case sessionRepo.RoleAll, sessionRepo.RoleJobSeeker, sessionRepo.RoleEmployee:
	default:
		role = sessionRepo.RoleAll
	}

	sessions, err := h.Service.List(c.Request.Context(), userID, role)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// UpdateStatusHandler handles PUT /api/sessions/:id/status. A cancelled
// target is routed through Cancel so the capacity release applies.
func (h *SessionHandler) UpdateStatusHandler(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		return
	}

	var req struct {
		Status      string `json:"status" binding:"required"`
		MeetingLink string `json:"meetingLink"`
		Notes       string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid status update", err.Error())
		return
	}

	if models.SessionStatus(req.Status) == models.SessionCancelled {
		detail, err := h.Service.Cancel(c.Request.Context(), c.Param("id"), userID)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, detail)
		return
	}

	detail, err := h.Service.Transition(c.Request.Context(), session.TransitionInput{
		SessionID:   c.Param("id"),
		RequesterID: userID,
		NewStatus:   models.SessionStatus(req.Status),
		MeetingLink: req.MeetingLink,
		Notes:       req.Notes,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CancelHandler handles DELETE /api/sessions/:id.
func (h *SessionHandler) CancelHandler(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		return
	}

	detail, err := h.Service.Cancel(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Session cancelled successfully",
		"session": detail,
	})
}
