package main

import (
	"todo-backend/backend/internal/config"
	"todo-backend/backend/internal/handlers"
	"todo-backend/backend/internal/middleware"
	"todo-backend/backend/internal/monitoring"
	"todo-backend/backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func buildRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryWithLog())
	router.Use(middleware.RequestID())
	router.Use(monitoring.MetricsMiddleware())

	// Credentialed CORS: browsers ignore a wildcard allow-headers
	// value when credentials are on, so the header set is enumerated.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
	}))

	taskHandler := handlers.NewTaskHandler(db, services.NewTaskService())

	router.GET("/", handlers.HealthCheck)
	router.GET("/metrics", monitoring.MetricsHandler)

	router.GET("/tasks", taskHandler.GetTasks)
	router.POST("/tasks", taskHandler.CreateTask)
	router.GET("/tasks/:id", taskHandler.GetTaskByID)
	router.PUT("/tasks/:id", taskHandler.UpdateTask)
	router.DELETE("/tasks/:id", taskHandler.DeleteTask)
	router.POST("/tasks/:id/toggle", taskHandler.ToggleTask)

	return router
}
