package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"printhub"
	"printhub/internal/api/handler/middleware"
	"printhub/internal/api/handler/response"
	"printhub/internal/api/handler/websocket"
	"printhub/internal/api/service"
)

type statsHandler struct {
	statsService *service.StatsService
	registry     *websocket.Registry
	config       printhub.AppConfig
	logger       zerolog.Logger
}

func newStatsHandler(registry *websocket.Registry) *statsHandler {
	return &statsHandler{
		statsService: service.NewStatsService(registry),
		registry:     registry,
		config:       printhub.GetConfig(),
		logger:       printhub.Logger,
	}
}

func StatsHandler(router *graceful.Graceful, registry *websocket.Registry) {
	h := newStatsHandler(registry)

	routes := router.Group("/api")
	routes.Use(middleware.AuthMiddleware(h.config))
	{
		routes.GET("/stats", h.getStats)
		routes.GET("/recent-activity", h.getRecentActivity)
		routes.GET("/connections", h.getConnections)
	}
}

func (slf *statsHandler) getStats(c *gin.Context) {
	stats, err := slf.statsService.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (slf *statsHandler) getRecentActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	activity, err := slf.statsService.GetRecentActivity(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to load recent activity"})
		return
	}
	c.JSON(http.StatusOK, activity)
}

func (slf *statsHandler) getConnections(c *gin.Context) {
	c.JSON(http.StatusOK, slf.registry.Snapshot())
}
