package main

import (
	"fmt"
	"log"
	"os"

	"sipsafe/internal/auth"
	"sipsafe/internal/database"
	"sipsafe/internal/handlers"
	"sipsafe/internal/metrics"
	"sipsafe/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load .env in development; in production the environment is real
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	// Initialize database
	if err := database.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Register Prometheus metrics
	metrics.Init()

	// Start the reminder dispatch worker
	services.NewReminderWorker().Start()

	// Initialize Gin router
	router := gin.Default()

	// Configure trusted proxies
	router.SetTrustedProxies([]string{"127.0.0.1"})

	// CORS for the mobile/web clients
	corsConfig := cors.DefaultConfig()
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = []string{origins}
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Basic routes
	router.GET("/", handlers.HomeHandler)
	router.GET("/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth routes (no auth required)
	router.POST("/auth/signup", handlers.Signup)
	router.POST("/auth/login", handlers.Login)
	router.POST("/auth/refresh", handlers.RefreshToken)

	// Protected routes (auth required)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		api.POST("/auth/logout", handlers.Logout)
		api.GET("/auth/me", handlers.GetCurrentUser)

		api.PUT("/accounts/me/notifications", handlers.UpdateNotificationPrefs)
		api.POST("/accounts/me/avatar", handlers.UploadAvatar)
		api.DELETE("/accounts/me/avatar", handlers.DeleteAvatar)

		api.POST("/groups", handlers.CreateGroup)
		api.GET("/groups", handlers.GetGroups)
		api.POST("/groups/:group_id/participants", handlers.AddParticipant)
		api.DELETE("/groups/:group_id/participants/:user_id", handlers.RemoveParticipant)

		api.GET("/groups/:group_id/messages", handlers.GetGroupMessages)
		api.POST("/groups/:group_id/messages", handlers.SendGroupMessage)
		api.GET("/groups/:group_id/messages/stream", handlers.StreamGroupMessages)

		api.POST("/reminders", handlers.ScheduleReminder)
		api.GET("/reminders", handlers.GetPendingReminders)
		api.DELETE("/reminders/:reminder_id", handlers.CancelReminder)
	}

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("Server starting on port %s...\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
