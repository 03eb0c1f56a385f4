package handlers

import (
	"net/http"

	"reflink/services/user"
	"reflink/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves registration, login and the self view.
type AuthHandler struct {
	UserService user.UserService
}

// NewAuthHandler builds the auth handler.
func NewAuthHandler(svc user.UserService) *AuthHandler {
	return &AuthHandler{UserService: svc}
}

// RegisterHandler handles POST /api/auth/register.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req struct {
		Username   string `json:"username" binding:"required"`
		Email      string `json:"email" binding:"required,email"`
		Password   string `json:"password" binding:"required"`
		Name       string `json:"name" binding:"required"`
		Title      string `json:"title" binding:"required"`
		Experience string `json:"experience" binding:"required"`
		Location   string `json:"location" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid registration request", err.Error())
		return
	}

	resp, err := h.UserService.Register(c.Request.Context(), user.RegisterInput{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		Title:      req.Title,
		Experience: req.Experience,
		Location:   req.Location,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// LoginHandler handles POST /api/auth/login.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid login request", err.Error())
		return
	}

	resp, err := h.UserService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Do not leak which of email/password was wrong.
		if utils.KindOf(err) == utils.KindValidation {
			c.JSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Invalid email or password"})
			return
		}
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MeHandler handles GET /api/auth/me.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		return
	}

	usr, err := h.UserService.GetByID(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	offers, err := h.UserService.ListOffers(c.Request.Context(), usr.ConsultingOffers)
	if err != nil {
		utils.GetLogger().Warn("failed to load offers for profile", zap.String("userId", userID), zap.Error(err))
		offers = nil
	}

	c.JSON(http.StatusOK, gin.H{"user": usr, "consultingOffers": offers})
}
