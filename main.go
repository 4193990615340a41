package main

import (
	"time"

	"comic-shelf-app/config"
	"comic-shelf-app/database"
	routes "comic-shelf-app/internal/app/http"
	"comic-shelf-app/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	database.InitDB()

	log := logger.New(config.LOG_LEVEL, config.LOG_FORMAT)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, log)

	log.Info("listening", "port", config.PORT)
	r.Run(":" + config.PORT)
}
