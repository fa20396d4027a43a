package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/jroosing/dnsmirage/internal/api/handlers"
	"github.com/jroosing/dnsmirage/internal/api/middleware"
	"github.com/jroosing/dnsmirage/internal/config"

	_ "github.com/jroosing/dnsmirage/internal/api/docs" // swagger docs
)

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, cfg *config.Config) {
	// Swagger UI at /swagger/*
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")

	// Optional API key protection.
	if cfg != nil && cfg.API.APIKey != "" {
		api.Use(middleware.RequireAPIKey(cfg.API.APIKey))
	}

	api.GET("/health", h.Health)
	api.GET("/stats", h.Stats)

	api.GET("/config", h.GetConfig)
	api.PUT("/config", h.PutConfig)

	api.GET("/rules", h.ListRules)
	api.POST("/rules", h.CreateRule)
	api.PUT("/rules/order", h.ReorderRules)
	api.POST("/rules/import", h.ImportRules)
	api.GET("/rules/export", h.ExportRules)
	api.GET("/rules/:id", h.GetRule)
	api.PUT("/rules/:id", h.UpdateRule)
	api.DELETE("/rules/:id", h.DeleteRule)

	api.POST("/control/start", h.StartCapture)
	api.POST("/control/stop", h.StopCapture)
	api.GET("/control/status", h.CaptureStatus)

	api.GET("/sessions", h.ListSessions)
	api.GET("/sessions/:id", h.GetSession)
	api.DELETE("/sessions/:id", h.DeleteSession)
	api.GET("/sessions/:id/pcap", h.DownloadPcap)

	api.GET("/interfaces", h.ListInterfaces)
	api.GET("/dns/types", h.DNSTypes)
}
