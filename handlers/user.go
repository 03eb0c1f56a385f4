package handlers

import (
	"net/http"
	"strconv"

	userRepo "reflink/database/repository/user"
	"reflink/services/user"
	"reflink/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves the public directory, profiles and offers.
type UserHandler struct {
	UserService user.UserService
}

// NewUserHandler builds the user handler.
func NewUserHandler(svc user.UserService) *UserHandler {
	return &UserHandler{UserService: svc}
}

// GetUsersHandler handles GET /api/users.
func (h *UserHandler) GetUsersHandler(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	pageResp, err := h.UserService.Discover(c.Request.Context(), userRepo.DiscoveryQuery{
		Skill: c.Query("skill"),
		Role:  c.Query("role"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageResp)
}

// GetProfileHandler handles GET /api/users/:username.
func (h *UserHandler) GetProfileHandler(c *gin.Context) {
	username := c.Param("username")

	usr, err := h.UserService.GetProfile(c.Request.Context(), username)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	offers, err := h.UserService.ListOffers(c.Request.Context(), usr.ConsultingOffers)
	if err != nil {
		utils.GetLogger().Warn("failed to load offers for profile", zap.String("username", username), zap.Error(err))
		offers = nil
	}

	c.JSON(http.StatusOK, gin.H{"user": usr, "consultingOffers": offers})
}

// UpdateProfileHandler handles PUT /api/users/profile.
func (h *UserHandler) UpdateProfileHandler(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		return
	}

	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid profile update", err.Error())
		return
	}

	usr, err := h.UserService.UpdateProfile(c.Request.Context(), userID, fields)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

// CreateOfferHandler handles POST /api/users/offers.
func (h *UserHandler) CreateOfferHandler(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		return
	}

	var req struct {
		Title       string   `json:"title" binding:"required"`
		Description string   `json:"description" binding:"required"`
		Duration    int      `json:"duration" binding:"required"`
		Skills      []string `json:"skills"`
		Benefits    string   `json:"benefits" binding:"required"`
		Category    string   `json:"category" binding:"required"`
		Difficulty  string   `json:"difficulty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid offer", err.Error())
		return
	}

	offer, err := h.UserService.CreateOffer(c.Request.Context(), userID, user.OfferInput{
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		Skills:      req.Skills,
		Benefits:    req.Benefits,
		Category:    req.Category,
		Difficulty:  req.Difficulty,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, offer)
}
