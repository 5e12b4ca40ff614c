package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danmuck/rgbctl/internal/cmdlog"
	"github.com/danmuck/rgbctl/internal/observability"
	"github.com/danmuck/rgbctl/internal/protocol"
	"github.com/rs/zerolog/log"
)

var ErrConnect = errors.New("session: connect failed")

// State is the session lifecycle phase.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateStreaming
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Session owns one source connection and its reader goroutine.
type Session struct {
	cfg  Config
	log  *cmdlog.Log
	sink Sink

	conn   net.Conn
	remote string

	state      atomic.Int32
	cancelled  atomic.Bool
	terminated atomic.Bool
	closeOnce  sync.Once
	done       chan struct{}

	errMu sync.Mutex
	err   error
}

// Dial connects to address and starts streaming into cmdlog.
//
// On failure the sink receives exactly one EventDisconnected and the returned
// error wraps ErrConnect.
func Dial(ctx context.Context, address string, cfg Config, cmdLog *cmdlog.Log, sink Sink) (*Session, error) {
	cfg = cfg.WithDefaults()
	target, err := ResolveAddress(address, cfg.Port)
	if err != nil {
		return nil, connectFailed(sink, address, err)
	}

	log.Info().Str("addr", target).Msg("session.Dial connecting")
	dialer := net.Dialer{Timeout: cfg.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		return nil, connectFailed(sink, target, err)
	}
	return Start(conn, cfg, cmdLog, sink), nil
}

// Start streams from an established connection. The session takes ownership
// of conn.
func Start(conn net.Conn, cfg Config, cmdLog *cmdlog.Log, sink Sink) *Session {
	s := &Session{
		cfg:    cfg.WithDefaults(),
		log:    cmdLog,
		sink:   sink,
		conn:   conn,
		remote: remoteAddr(conn),
		done:   make(chan struct{}),
	}
	s.state.Store(int32(StateStreaming))
	log.Info().Str("addr", s.remote).Msg("session.Start streaming")
	go s.run()
	return s
}

func connectFailed(sink Sink, addr string, cause error) error {
	err := fmt.Errorf("%w: %s: %w", ErrConnect, addr, cause)
	log.Warn().Str("addr", addr).Err(cause).Msg("session.Dial failed")
	observability.RecordDisconnect(observability.ReasonConnect)
	if sink != nil {
		sink.Push(Event{Kind: EventDisconnected, Err: err})
	}
	return err
}

func (s *Session) State() State {
	return State(s.state.Load())
}

// Err returns the terminal read or decode error, or nil.
func (s *Session) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *Session) RemoteAddr() string {
	return s.remote
}

// Done is closed when the reader goroutine has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Shutdown cancels the session and closes the connection so a parked read
// returns. No EventDisconnected is pushed for a cancelled session.
func (s *Session) Shutdown() {
	if s.cancelled.Swap(true) {
		return
	}
	log.Info().Str("addr", s.remote).Msg("session.Shutdown")
	s.closeConn()
}

func (s *Session) run() {
	defer close(s.done)
	defer s.closeConn()

	reader := bufio.NewReader(s.conn)
	for {
		if s.cancelled.Load() {
			s.stop()
			return
		}
		if s.cfg.ReadTimeout > 0 {
			_ = s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		}
		cmd, err := protocol.Decode(reader)
		if s.cancelled.Load() {
			s.stop()
			return
		}
		if err != nil {
			s.fail(err)
			return
		}
		s.log.Append(cmd, s.publish)
	}
}

// publish runs under the log lock, so command events and toggle events
// reach the sink in mutation order.
func (s *Session) publish(c cmdlog.Change) {
	observability.RecordCommand(c.Entry.Kind.String(), int(c.Entry.Seq))
	log.Debug().
		Uint64("seq", c.Entry.Seq).
		Str("command", c.Entry.Command.String()).
		Str("color", c.Color.String()).
		Msg("session.run appended")
	if s.sink != nil {
		s.sink.Push(Event{Kind: EventCommand, Entry: c.Entry, Color: c.Color})
	}
}

func (s *Session) stop() {
	s.state.Store(int32(StateDisconnected))
	observability.RecordDisconnect(observability.ReasonShutdown)
}

func (s *Session) fail(err error) {
	s.errMu.Lock()
	s.err = err
	s.errMu.Unlock()
	s.state.Store(int32(StateDisconnected))
	s.closeConn()

	reason := observability.ReasonIO
	if protocol.IsTruncated(err) {
		reason = observability.ReasonTruncated
	}
	observability.RecordDisconnect(reason)
	log.Warn().Str("addr", s.remote).Str("reason", reason).Err(err).Msg("session.run disconnected")

	if !s.terminated.CompareAndSwap(false, true) {
		return
	}
	if s.sink != nil {
		s.sink.Push(Event{Kind: EventDisconnected, Err: err})
	}
}

func (s *Session) closeConn() {
	s.closeOnce.Do(func() {
		if s.conn != nil {
			_ = s.conn.Close()
		}
	})
}

func remoteAddr(conn net.Conn) string {
	if conn == nil || conn.RemoteAddr() == nil {
		return ""
	}
	return conn.RemoteAddr().String()
}
