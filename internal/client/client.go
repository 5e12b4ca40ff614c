// Package client is the collaborator-facing entry point: it owns the command
// log and the event dispatcher, and drives at most one session at a time.
package client

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/danmuck/rgbctl/internal/cmdlog"
	"github.com/danmuck/rgbctl/internal/observability"
	"github.com/danmuck/rgbctl/internal/protocol/session"
	"github.com/danmuck/rgbctl/internal/rgb"
	"github.com/rs/zerolog/log"
)

var (
	ErrAlreadyConnected = errors.New("client: session already active")
	ErrClosed           = errors.New("client: closed")
)

type Config struct {
	Session session.Config
}

func DefaultConfig() Config {
	return Config{Session: session.DefaultConfig()}
}

// Status is a point-in-time view of the client.
type Status struct {
	State     session.State `json:"-"`
	StateName string        `json:"state"`
	Address   string        `json:"address"`
	Entries   int           `json:"entries"`
	Color     rgb.Color     `json:"color"`
	LastError string        `json:"last_error,omitempty"`
}

type Client struct {
	cfg  Config
	log  *cmdlog.Log
	disp *session.Dispatcher

	mu         sync.Mutex
	sess       *session.Session
	address    string
	connecting bool
	cancelDial context.CancelFunc
	lastErr    error
	closed     bool
}

// New builds a client whose events are delivered to obs on a dedicated
// goroutine. obs may be nil.
func New(cfg Config, obs session.Observer) *Client {
	cfg.Session = cfg.Session.WithDefaults()
	return &Client{
		cfg:  cfg,
		log:  cmdlog.New(),
		disp: session.NewDispatcher(obs),
	}
}

func (c *Client) Log() *cmdlog.Log {
	return c.log
}

// Connect dials address and starts streaming. Only one session may be active;
// after it disconnects Connect may be called again and the log carries over.
func (c *Client) Connect(ctx context.Context, address string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.connecting || c.active() {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	dialCtx, cancel := context.WithCancel(ctx)
	c.connecting = true
	c.cancelDial = cancel
	c.address = strings.TrimSpace(address)
	c.mu.Unlock()

	sess, err := session.Dial(dialCtx, address, c.cfg.Session, c.log, c.disp)
	cancelled := dialCtx.Err() != nil
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.connecting = false
	c.cancelDial = nil
	if err != nil {
		c.lastErr = err
		return err
	}
	if cancelled || c.closed {
		sess.Shutdown()
		return context.Canceled
	}
	c.sess = sess
	c.lastErr = nil
	log.Info().Str("addr", sess.RemoteAddr()).Msg("client.Connect streaming")
	return nil
}

// ToggleSelection flips one entry's selection and publishes the new color.
func (c *Client) ToggleSelection(seq uint64) (cmdlog.Entry, rgb.Color, error) {
	entry, color, err := c.log.Toggle(seq, func(ch cmdlog.Change) {
		c.disp.Push(session.Event{Kind: session.EventColor, Entry: ch.Entry, Color: ch.Color})
	})
	if err != nil {
		return entry, color, err
	}
	observability.RecordToggle()
	log.Debug().Uint64("seq", seq).Bool("selected", entry.Selected).Str("color", color.String()).Msg("client.ToggleSelection")
	return entry, color, nil
}

// Shutdown cancels an in-flight dial and stops the active session, waiting
// for its reader to exit.
func (c *Client) Shutdown() {
	c.mu.Lock()
	sess := c.sess
	if c.cancelDial != nil {
		c.cancelDial()
	}
	c.mu.Unlock()

	if sess == nil {
		return
	}
	sess.Shutdown()
	<-sess.Done()
}

// Close shuts down and drains pending observer deliveries.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.Shutdown()
	c.disp.Close()
	<-c.disp.Done()
	return nil
}

func (c *Client) Color() rgb.Color {
	return c.log.Color()
}

func (c *Client) Entries() []cmdlog.Entry {
	return c.log.Entries()
}

func (c *Client) Status() Status {
	c.mu.Lock()
	st := Status{Address: c.address, State: session.StateDisconnected}
	switch {
	case c.connecting:
		st.State = session.StateConnecting
	case c.sess != nil:
		st.State = c.sess.State()
		if err := c.sess.Err(); err != nil {
			st.LastError = err.Error()
		}
	}
	if st.LastError == "" && c.lastErr != nil {
		st.LastError = c.lastErr.Error()
	}
	c.mu.Unlock()

	st.StateName = st.State.String()
	st.Entries = c.log.Len()
	st.Color = c.log.Color()
	return st
}

// caller holds c.mu
func (c *Client) active() bool {
	return c.sess != nil && c.sess.State() == session.StateStreaming
}
