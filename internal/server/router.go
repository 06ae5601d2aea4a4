// internal/server/router.go

// Package server exposes the application service over REST. The routes
// and their JSON shapes are the contract the Client implementation in
// internal/service consumes.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"loantracker/internal/common/logger"
	"loantracker/internal/common/metrics"
	"loantracker/internal/service"
)

// Router builds the gin engine with all application routes mounted.
func Router(svc service.ApplicationService, log logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.Middleware())

	h := &handler{svc: svc, log: log}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apps := r.Group("/applications")
	{
		apps.GET("", h.list)
		apps.POST("", h.create)
		apps.GET("/search", h.searchByName)
		apps.GET("/report", h.reportPage)
		apps.GET("/report/summary", h.reportSummary)
		apps.GET("/report/download", h.reportDownload)
		apps.GET("/:id", h.get)
		apps.PUT("/:id", h.update)
		apps.POST("/:id/upload", h.upload)
		apps.GET("/:id/files", h.listFiles)
		apps.GET("/:id/download", h.downloadFile)
	}

	return r
}
