package source

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danmuck/rgbctl/internal/observability"
	"github.com/danmuck/rgbctl/internal/protocol"
	"github.com/rs/zerolog/log"
)

var ErrListenAddrRequired = errors.New("source: listen address required")

// Config configures the simulated source.
type Config struct {
	ListenAddr string
	Interval   time.Duration
	// AbsolutePercent is the chance, out of 100, that a command is absolute.
	AbsolutePercent int
	// MaxDelta bounds relative deltas to [-MaxDelta, MaxDelta].
	MaxDelta int
	// Seed fixes the random stream; zero picks a time-based seed.
	Seed int64
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:      ":1234",
		Interval:        time.Second,
		AbsolutePercent: 5,
		MaxDelta:        10,
	}
}

func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.Interval <= 0 {
		c.Interval = def.Interval
	}
	if c.AbsolutePercent < 0 {
		c.AbsolutePercent = 0
	}
	if c.AbsolutePercent > 100 {
		c.AbsolutePercent = 100
	}
	if c.MaxDelta < 0 {
		c.MaxDelta = -c.MaxDelta
	}
	if c.MaxDelta > 127 {
		c.MaxDelta = 127
	}
	return c
}

// Server streams generated commands to every accepted client.
type Server struct {
	cfg Config

	connsMu sync.Mutex
	conns   map[net.Conn]struct{}

	clients  atomic.Int64
	accepted atomic.Int64
}

func NewServer(cfg Config) *Server {
	cfg = cfg.WithDefaults()
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return &Server{
		cfg:   cfg,
		conns: make(map[net.Conn]struct{}),
	}
}

// Run listens on the configured address and serves until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	addr := strings.TrimSpace(s.cfg.ListenAddr)
	if addr == "" {
		return ErrListenAddrRequired
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Info().Str("addr", ln.Addr().String()).Msg("source.Server.Run listening")
	return s.Serve(ctx, ln)
}

// Serve runs the accept loop on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()
	go func() {
		<-ctx.Done()
		s.closeAllConns()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		n := s.accepted.Add(1)
		s.trackConn(conn)
		gen := NewGenerator(s.cfg, rand.New(rand.NewSource(s.cfg.Seed+n-1)))
		go s.handleConn(ctx, conn, gen)
	}
}

// Clients reports the number of connected clients.
func (s *Server) Clients() int64 {
	return s.clients.Load()
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn, gen *Generator) {
	defer conn.Close()
	defer s.untrackConn(conn)
	remote := conn.RemoteAddr().String()
	active := s.clients.Add(1)
	log.Info().Str("remote", remote).Int64("active_clients", active).Msg("source.session client connected")
	defer func() {
		remaining := s.clients.Add(-1)
		log.Info().Str("remote", remote).Int64("active_clients", remaining).Msg("source.session client disconnected")
	}()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	buf := make([]byte, 0, 8)
	for {
		cmd, state := gen.Next()
		var err error
		buf, err = protocol.AppendCommand(buf[:0], cmd)
		if err != nil {
			log.Error().Err(err).Msg("source.session encode")
			return
		}
		if _, err := conn.Write(buf); err != nil {
			log.Debug().Str("remote", remote).Err(err).Msg("source.session write")
			return
		}
		observability.RecordSourceCommand(cmd.Kind.String())
		log.Debug().Str("command", cmd.String()).Str("state", state.String()).Msg("source.session sent")

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) trackConn(conn net.Conn) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	s.conns[conn] = struct{}{}
}

func (s *Server) untrackConn(conn net.Conn) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	delete(s.conns, conn)
}

func (s *Server) closeAllConns() {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	for conn := range s.conns {
		_ = conn.Close()
	}
}
