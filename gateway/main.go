package main

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/crypto/bcrypt"

	"github.com/lucidwave/qsim-backend/gateway/integration"
	"github.com/lucidwave/qsim-backend/gateway/router"
	"github.com/lucidwave/qsim-backend/gateway/services"
	"github.com/lucidwave/qsim-backend/shared/config"
	"github.com/lucidwave/qsim-backend/shared/middleware"
)

// @title Quantum Sandbox API
// @version 1.0
// @description 1D quantum mechanics sandbox: formula preview, potential/wavefunction simulation, and time evolution.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg := config.Load()

	logger := logrus.StandardLogger()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.Info("initializing service container")
	container, err := services.NewServiceContainer(cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize service container")
	}
	defer container.Shutdown()
	logger.Info("service container ready")

	if cfg.APIKey != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.APIKey), bcrypt.DefaultCost)
		if err != nil {
			logger.WithError(err).Fatal("failed to hash configured API key")
		}
		middleware.SetAPIKeyHash(hash)
		logger.Info("X-API-Key authentication enabled")
	} else {
		logger.Warn("API_KEY not set, X-API-Key authentication disabled, JWT bearer only")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())

	errorConfig := &middleware.ErrorHandlerConfig{
		EnableStackTrace:     cfg.Environment == "development",
		MaxRequestTimeout:    30 * time.Second,
		EnableCircuitBreaker: true,
		ErrorThreshold:       10,
		TimeWindow:           1 * time.Minute,
	}
	r.Use(middleware.ErrorHandlerMiddleware(errorConfig))
	r.Use(middleware.ValidationMiddleware())
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		healthy := container.IsInitialized()
		status := 200
		if !healthy {
			status = 503
		}
		c.JSON(status, gin.H{
			"status":      map[bool]string{true: "healthy", false: "unhealthy"}[healthy],
			"service":     cfg.ServiceName,
			"initialized": container.IsInitialized(),
		})
	})

	r.GET("/health/detailed", func(c *gin.Context) {
		checker := integration.NewIntegrationHealthChecker(container)
		results := checker.CheckAllServices()
		overall := checker.GetOverallHealth()

		status := 200
		switch overall {
		case "unhealthy":
			status = 503
		case "degraded":
			status = 206
		}
		c.JSON(status, gin.H{
			"status":          overall,
			"service":         cfg.ServiceName,
			"detailed_checks": results,
			"timestamp":       time.Now(),
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/v1")
	router.SetupGreetRoute(v1)
	router.SetupFormulaRoutes(v1, container)

	experiments := v1.Group("")
	experiments.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	router.SetupExperimentRoutes(experiments, container)

	logger.Infof("starting quantum sandbox gateway on port %d", cfg.Port)
	logger.Infof("documentation available at http://localhost:%d/docs/", cfg.Port)

	if err := r.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		logger.WithError(err).Fatal("gateway server exited")
	}
}
