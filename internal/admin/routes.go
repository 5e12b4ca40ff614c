package admin

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danmuck/rgbctl/internal/client"
	"github.com/danmuck/rgbctl/internal/cmdlog"
	"github.com/danmuck/rgbctl/internal/protocol/session"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type connectRequest struct {
	Address string `json:"address"`
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.health)
	s.router.GET("/color", s.color)
	s.router.GET("/log", s.entries)
	s.router.POST("/log/:seq/toggle", s.toggle)
	s.router.POST("/connect", s.connect)
	s.router.POST("/shutdown", s.shutdown)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) health(c *gin.Context) {
	st := s.ctl.Status()
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"uptime":  time.Since(s.startedAt).String(),
		"service": s.cfg.Node,
		"session": st,
	})
}

func (s *Server) color(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"color": s.ctl.Status().Color})
}

func (s *Server) entries(c *gin.Context) {
	entries := s.ctl.Entries()
	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

func (s *Server) toggle(c *gin.Context) {
	seq, err := strconv.ParseUint(c.Param("seq"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sequence: " + c.Param("seq")})
		return
	}
	entry, color, err := s.ctl.ToggleSelection(seq)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry, "color": color})
}

func (s *Server) connect(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	address := strings.TrimSpace(req.Address)
	if address == "" {
		address = s.cfg.DefaultAddress
	}
	if err := s.ctl.Connect(c.Request.Context(), address); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "connected", "session": s.ctl.Status()})
}

func (s *Server) shutdown(c *gin.Context) {
	s.ctl.Shutdown()
	c.JSON(http.StatusOK, gin.H{"status": "disconnected", "session": s.ctl.Status()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, cmdlog.ErrUnknownSequence):
		return http.StatusNotFound
	case errors.Is(err, client.ErrAlreadyConnected):
		return http.StatusConflict
	case errors.Is(err, client.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, session.ErrAddressRequired):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrConnect):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
