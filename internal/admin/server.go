// Package admin exposes the client's collaborator interface over HTTP.
package admin

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/danmuck/rgbctl/internal/client"
	"github.com/danmuck/rgbctl/internal/cmdlog"
	"github.com/danmuck/rgbctl/internal/observability"
	"github.com/danmuck/rgbctl/internal/rgb"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrListenAddrRequired = errors.New("admin: listen address required")

// Controller is the subset of client.Client the routes drive.
type Controller interface {
	Connect(ctx context.Context, address string) error
	ToggleSelection(seq uint64) (cmdlog.Entry, rgb.Color, error)
	Shutdown()
	Entries() []cmdlog.Entry
	Status() client.Status
}

type Config struct {
	ListenAddr     string
	CorsOrigins    []string
	DefaultAddress string
	Node           string
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:  "127.0.0.1:7070",
		CorsOrigins: []string{"http://localhost:3000"},
		Node:        "rgbctl",
	}
}

type Server struct {
	cfg       Config
	ctl       Controller
	router    *gin.Engine
	startedAt time.Time
}

func New(cfg Config, ctl Controller, logger zerolog.Logger) *Server {
	if strings.TrimSpace(cfg.Node) == "" {
		cfg.Node = DefaultConfig().Node
	}
	observability.RegisterMetrics()

	s := &Server{
		cfg:       cfg,
		ctl:       ctl,
		router:    gin.New(),
		startedAt: time.Now(),
	}
	s.router.Use(gin.Recovery())
	s.router.Use(observability.RequestLogger(logger))
	s.router.Use(observability.RequestMetricsMiddleware(cfg.Node))
	if len(cfg.CorsOrigins) > 0 {
		s.router.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CorsOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on cfg.ListenAddr until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	addr := strings.TrimSpace(s.cfg.ListenAddr)
	if addr == "" {
		return ErrListenAddrRequired
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done. The listener is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info().Str("addr", ln.Addr().String()).Msg("admin listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		log.Info().Msg("admin shutdown")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
