package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/echo-track/echo-track-api/internal/config"
	"github.com/echo-track/echo-track-api/internal/database"
	"github.com/echo-track/echo-track-api/internal/handlers"
	"github.com/echo-track/echo-track-api/internal/jobs"
	"github.com/echo-track/echo-track-api/internal/repository"
	cronjobs "github.com/echo-track/echo-track-api/internal/scheduler"
	"github.com/echo-track/echo-track-api/internal/services"
	"github.com/echo-track/echo-track-api/pkg/logger"
	"github.com/echo-track/echo-track-api/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB; the client is shared by every request and closed
	// on shutdown
	client, db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}
	defer database.Disconnect(client)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Log.WithError(err).Warn("Failed to ensure indexes")
	}
	cancel()

	// --- Repositories ---
	challengeRepo := repository.NewChallengeRepository(db)
	userChallengeRepo := repository.NewUserChallengeRepository(db)
	tipRepo := repository.NewTipRepository(db)
	eventRepo := repository.NewEventRepository(db)

	// --- Services ---
	challengeService := services.NewChallengeService(challengeRepo)
	enrollmentService := services.NewEnrollmentService(userChallengeRepo)
	contentService := services.NewContentService(tipRepo, eventRepo)

	// --- Handlers ---
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService)
	contentHandler := handlers.NewContentHandler(contentService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	router.HandleFunc("/", handlers.HealthHandler).Methods("GET")

	// Challenge routes
	router.HandleFunc("/challenges", challengeHandler.GetChallengesHandler).Methods("GET")
	router.HandleFunc("/challenges", challengeHandler.CreateChallengeHandler).Methods("POST")
	router.HandleFunc("/challenge/{id}", challengeHandler.GetChallengeHandler).Methods("GET")
	router.HandleFunc("/active-challenges", challengeHandler.GetActiveChallengesHandler).Methods("GET")
	router.HandleFunc("/challenges/{id}", challengeHandler.UpdateChallengeHandler).Methods("PUT")
	router.HandleFunc("/challenges/{id}", challengeHandler.IncrementParticipantsHandler).Methods("PATCH")
	router.HandleFunc("/challenges/{id}", challengeHandler.DeleteChallengeHandler).Methods("DELETE")
	router.HandleFunc("/my-challenges", challengeHandler.GetMyChallengesHandler).Methods("GET")

	// Enrollment routes
	router.HandleFunc("/userChallenges", enrollmentHandler.EnrollHandler).Methods("POST")
	router.HandleFunc("/userChallenges", enrollmentHandler.GetEnrollmentsHandler).Methods("GET")
	router.HandleFunc("/userChallenges/{id}", enrollmentHandler.GetEnrollmentHandler).Methods("GET")
	router.HandleFunc("/userChallenges/{id}", enrollmentHandler.IncrementProgressHandler).Methods("PATCH")
	router.HandleFunc("/my-activities", enrollmentHandler.GetMyActivitiesHandler).Methods("GET")

	// Content feeds
	router.HandleFunc("/tips", contentHandler.GetTipsHandler).Methods("GET")
	router.HandleFunc("/upcoming-events", contentHandler.GetUpcomingEventsHandler).Methods("GET")

	// Metrics
	middleware.InitPrometheus()
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Apply middleware for logging, metrics and rate limiting
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.MonitorMiddleware)
	router.Use(middleware.RateLimitMiddleware)
	go middleware.CleanupVisitors()

	// Recurring challenge scans
	scanner := jobs.NewClosingSoonScanner(challengeService)
	scheduler := cronjobs.StartChallengeCronJobs(scanner)
	defer scheduler.Stop()

	c := cors.New(cors.Options{
		AllowedOrigins: []string{cfg.AllowedOrigin},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders: []string{"Content-Type"},
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: c.Handler(router),
	}

	go func() {
		fmt.Printf("Server running on port %s\n", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Close the server and the Mongo client cleanly on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("Server shutdown failed")
	}
}
