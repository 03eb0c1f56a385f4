package handlers

import (
	"net/http"

	referralRepo "reflink/database/repository/referral"
	"reflink/models"
	"reflink/services/referral"
	"reflink/utils"

	"github.com/gin-gonic/gin"
)

// ReferralHandler serves referral submission and tracking.
type ReferralHandler struct {
	Service referral.ReferralService
}

// NewReferralHandler builds the referral handler.
func NewReferralHandler(svc referral.ReferralService) *ReferralHandler {
	return &ReferralHandler{Service: svc}
}

// SubmitHandler handles POST /api/referrals.
func (h *ReferralHandler) SubmitHandler(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		return
	}

	var req struct {
		SessionID       string `json:"sessionId" binding:"required"`
		Company         string `json:"company" binding:"required"`
		Position        string `json:"position" binding:"required"`
		JobDescription  string `json:"jobDescription"`
		ApplicationLink string `json:"applicationLink"`
		EmployeeNotes   string `json:"employeeNotes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid referral", err.Error())
		return
	}

	detail, err := h.Service.Submit(c.Request.Context(), referral.SubmitInput{
		SessionID:       req.SessionID,
		EmployeeID:      userID,
		Company:         req.Company,
		Position:        req.Position,
		JobDescription:  req.JobDescription,
		ApplicationLink: req.ApplicationLink,
		EmployeeNotes:   req.EmployeeNotes,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

// ListHandler handles GET /api/referrals?type={all|as-jobseeker|as-employee}.
func (h *ReferralHandler) ListHandler(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		return
	}

	role := referralRepo.ListRole(c.DefaultQuery("type", string(referralRepo.RoleAll)))
	switch role {
	case referralRepo.RoleAll, referralRepo.RoleJobSeeker, referralRepo.RoleEmployee:
	default:
		role = referralRepo.RoleAll
	}

	referrals, err := h.Service.List(c.Request.Context(), userID, role)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, referrals)
}

// UpdateStatusHandler handles PUT /api/referrals/:id/status.
func (h *ReferralHandler) UpdateStatusHandler(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid status update", err.Error())
		return
	}

	detail, err := h.Service.UpdateStatus(c.Request.Context(), c.Param("id"), userID,
		models.ReferralStatus(req.Status), req.Notes)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
