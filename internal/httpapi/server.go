// Package httpapi exposes the external trigger endpoint: the reservation
// site pushes its update status here instead of waiting for the weekly cron.
package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const apiKeyHeader = "x-api-key"

// Broadcaster runs the reminder fan-out when the site reports an update.
type Broadcaster interface {
	SendMidweekReminder(ctx context.Context) error
}

// Server handles the /status endpoint and liveness probes.
type Server struct {
	engine Broadcaster
	apiKey string
	log    *zap.Logger
}

func New(engine Broadcaster, apiKey string, log *zap.Logger) *Server {
	return &Server{engine: engine, apiKey: apiKey, log: log}
}

// Router builds the gin handler.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", s.handleLiveness)
	r.HEAD("/", s.handleLiveness)
	r.GET("/status", s.handleStatusInfo)
	r.POST("/status", s.handleStatusUpdate)
	return r
}

type statusRequest struct {
	SiteStatus bool `json:"siteStatus"`
}

func (s *Server) handleLiveness(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (s *Server) handleStatusInfo(c *gin.Context) {
	c.String(http.StatusOK, "POST {\"siteStatus\": true} with a valid x-api-key to trigger the reminder broadcast")
}

func (s *Server) handleStatusUpdate(c *gin.Context) {
	if c.GetHeader(apiKeyHeader) != s.apiKey {
		s.log.Warn("status update rejected: bad api key", zap.String("remote", c.ClientIP()))
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid api key"})
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if !req.SiteStatus {
		c.JSON(http.StatusOK, gin.H{"message": "status noted, no reminder sent"})
		return
	}

	s.log.Info("site updated signal received, broadcasting")
	if err := s.engine.SendMidweekReminder(c.Request.Context()); err != nil {
		s.log.Error("triggered broadcast failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "broadcast failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reminder broadcast sent"})
}
