package routes

import (
	"net/http"
	"time"

	"reflink/handlers"
	"reflink/middleware"
	"reflink/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers account endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Auth.RegisterHandler)
		api.POST("/login", hb.Auth.LoginHandler)

		api.GET("/me", middleware.JWTAuthMiddleware(), hb.Auth.MeHandler)
	}
}

// RegisterUserRoutes registers directory, profile and offer endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		// Public endpoints with optional authentication.
		api.GET("", middleware.OptionalAuthMiddleware(), hb.User.GetUsersHandler)
		api.GET("/:username", middleware.OptionalAuthMiddleware(), hb.User.GetProfileHandler)

		// Protected routes (Require Authentication)
		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.PUT("/profile", hb.User.UpdateProfileHandler)
		protected.POST("/offers", hb.User.CreateOfferHandler)
	}
}

// RegisterSessionRoutes registers the booking and lifecycle endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/sessions")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.Session.BookHandler)
		api.GET("", hb.Session.ListHandler)
		api.PUT("/:id/status", hb.Session.UpdateStatusHandler)
		api.DELETE("/:id", hb.Session.CancelHandler)
	}
}

// RegisterReferralRoutes registers referral endpoints.
func RegisterReferralRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/referrals")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.Referral.SubmitHandler)
		api.GET("", hb.Referral.ListHandler)
		api.PUT("/:id/status", hb.Referral.UpdateStatusHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "RefLink API is running!",
			"checks":  utils.GetHealthStatus(),
		})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterSessionRoutes(r, hb)
	RegisterReferralRoutes(r, hb)
	RegisterHealthRoute(r)
}
