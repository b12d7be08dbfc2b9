package api

import (
	"log"
	"strings"
	"time"

	api_utils "github.com/ethanbaker/api/pkg/utils"
	"github.com/ethanbaker/scribe/internal/session"
	"github.com/ethanbaker/scribe/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	health_module "github.com/ethanbaker/scribe/internal/api/modules/health"
	meetings_module "github.com/ethanbaker/scribe/internal/api/modules/meetings"
)

// Start configures the HTTP surface over the session controller and runs
// the server. It blocks until the server exits
func Start(cfg *utils.Config, controller *session.Controller) {
	// Initialized configuration settings
	port := cfg.GetWithDefault("API_PORT", "8080")

	// Add app level settings/routes
	engine := gin.Default()
	engine.NoRoute(api_utils.NoRouteHandler)

	// Add trusted proxies
	engine.SetTrustedProxies(nil)

	// Add CORS using gin-contrib/cors (https://github.com/gin-contrib/cors for documentation)
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.GetWithDefault("CORS_ALLOWED_ORIGINS", "*"), ","),
		AllowMethods:     []string{"OPTIONS", "GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Base group '/api' for all API routes
	baseGroup := engine.Group("/api")

	// Adding custom modules
	health_module.RegisterRoutes(baseGroup)

	meetings_module.RegisterRoutes(baseGroup, cfg)
	meetings_module.Init(controller)

	// Then after performing initial setup, start the server
	if err := engine.Run(":" + port); err != nil {
		log.Fatal("[API-MAIN]: Failed to start server: ", err)
	}
}
