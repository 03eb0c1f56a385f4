// File: reflink/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reflink/config"
	"reflink/cron"
	"reflink/database"
	offerRepoPkg "reflink/database/repository/offer"
	referralRepoPkg "reflink/database/repository/referral"
	sessionRepoPkg "reflink/database/repository/session"
	userRepoPkg "reflink/database/repository/user"
	"reflink/handlers"
	"reflink/middleware"
	"reflink/routes"
	"reflink/services/referral"
	"reflink/services/session"
	"reflink/services/tasks"
	"reflink/services/user"
	"reflink/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	offerRepo := offerRepoPkg.NewMongoOfferRepo()
	sessionRepo := sessionRepoPkg.NewMongoSessionRepo()
	referralRepo := referralRepoPkg.NewMongoReferralRepo()

	// background counter reconciliation.
	taskClient := tasks.NewClient()
	defer taskClient.Close()
	cron.InitCounterWorker(userRepo, sessionRepo)

	// services.
	userService := &user.DefaultUserService{
		Repo:   userRepo,
		Offers: offerRepo,
	}
	sessionService := &session.DefaultSessionService{
		Sessions:   sessionRepo,
		Offers:     offerRepo,
		Users:      userRepo,
		RunTx:      database.WithTransaction,
		Reconciler: taskClient,
	}
	referralService := &referral.DefaultReferralService{
		Referrals: referralRepo,
		Sessions:  sessionRepo,
		Users:     userRepo,
		Lifecycle: sessionService,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Auth:     handlers.NewAuthHandler(userService),
		User:     handlers.NewUserHandler(userService),
		Session:  handlers.NewSessionHandler(sessionService),
		Referral: handlers.NewReferralHandler(referralService),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor([]*redis.Client{utils.GetAuthCacheClient()}, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
