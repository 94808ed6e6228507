package main

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meetings-survey/survey-backend/pkg/apihelpers"
	"github.com/meetings-survey/survey-backend/pkg/tokenbroker"
	"github.com/meetings-survey/survey-backend/services/tab-api/apihandlers"
)

var conf TabApiConfig

func main() {
	broker := tokenbroker.New(
		surveyCfg.AppID,
		surveyCfg.AppSecret,
		time.Duration(conf.TokenExchangeTimeoutSec)*time.Second,
	)

	// Start webserver
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     conf.GinConfig.AllowOrigins,
		AllowMethods:     []string{"POST", "GET", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Content-Length", "X-Teams-Chat-Id", "X-Teams-Meeting-Id", "X-Teams-Tenant-Id", "X-Teams-User-Id", "X-Teams-Frame-Context"},
		ExposeHeaders:    []string{"Authorization", "Content-Type", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add handlers
	router.GET("/", apihandlers.HealthCheckHandle)

	apiHandlers := apihandlers.NewHTTPHandler(
		surveyCfg,
		broker,
		activityDBService,
		time.Duration(conf.GraphConfig.TimeoutSec)*time.Second,
		conf.GraphConfig.TabName,
	)
	apiHandlers.AddAppConfigAPI(&router.RouterGroup)

	v1Root := router.Group("/v1")
	apiHandlers.AddSurveyAPI(v1Root)

	if conf.GinConfig.DebugMode {
		if err := apihelpers.WriteRoutesToFile(router, "tab-api-routes.txt"); err != nil {
			slog.Error("Error writing routes to file", slog.String("error", err.Error()))
		}
	}

	// Start the server
	slog.Info("Starting Meetings Survey Tab API on port " + conf.GinConfig.Port)
	if err := router.Run(":" + conf.GinConfig.Port); err != nil {
		slog.Error("Exited Meetings Survey Tab API", slog.String("error", err.Error()))
		return
	}
}
