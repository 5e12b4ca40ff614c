package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danmuck/rgbctl/internal/client"
	"github.com/danmuck/rgbctl/internal/cmdlog"
	"github.com/danmuck/rgbctl/internal/protocol"
	"github.com/danmuck/rgbctl/internal/protocol/session"
	"github.com/danmuck/rgbctl/internal/rgb"
	"github.com/danmuck/rgbctl/internal/testutil/testlog"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type fakeController struct {
	mu        sync.Mutex
	log       *cmdlog.Log
	connected string
	connErr   error
	shutdowns int
}

func newFakeController() *fakeController {
	l := cmdlog.New()
	l.Append(protocol.Absolute(10, 20, 30))
	l.Append(protocol.Relative(5, -5, 0))
	return &fakeController{log: l}
}

func (f *fakeController) Connect(_ context.Context, address string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.connErr != nil {
		return f.connErr
	}
	f.connected = address
	return nil
}

func (f *fakeController) ToggleSelection(seq uint64) (cmdlog.Entry, rgb.Color, error) {
	return f.log.Toggle(seq)
}

func (f *fakeController) Shutdown() {
	f.mu.Lock()
	f.shutdowns++
	f.mu.Unlock()
}

func (f *fakeController) Entries() []cmdlog.Entry {
	return f.log.Entries()
}

func (f *fakeController) Status() client.Status {
	return client.Status{
		StateName: session.StateDisconnected.String(),
		Entries:   f.log.Len(),
		Color:     f.log.Color(),
	}
}

func newTestServer(t *testing.T, ctl Controller) *Server {
	t.Helper()
	testlog.Start(t)
	gin.SetMode(gin.TestMode)
	cfg := DefaultConfig()
	cfg.DefaultAddress = "127.0.0.1:1234"
	return New(cfg, ctl, zerolog.Nop())
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
}

func TestHealthAndColor(t *testing.T) {
	s := newTestServer(t, newFakeController())

	rr := do(t, s, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var health map[string]any
	decode(t, rr, &health)
	if health["status"] != "ok" || health["service"] != "rgbctl" {
		t.Fatalf("unexpected health payload %#v", health)
	}

	rr = do(t, s, http.MethodGet, "/color", "")
	var body struct {
		Color rgb.Color `json:"color"`
	}
	decode(t, rr, &body)
	if body.Color != (rgb.Color{R: 15, G: 15, B: 30}) {
		t.Fatalf("unexpected color %+v", body.Color)
	}
}

func TestLogListsEntriesInOrder(t *testing.T) {
	s := newTestServer(t, newFakeController())

	rr := do(t, s, http.MethodGet, "/log", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body struct {
		Count   int `json:"count"`
		Entries []struct {
			Seq      uint64 `json:"seq"`
			Kind     string `json:"kind"`
			R        int32  `json:"r"`
			Selected bool   `json:"selected"`
		} `json:"entries"`
	}
	decode(t, rr, &body)
	if body.Count != 2 || len(body.Entries) != 2 {
		t.Fatalf("unexpected entries %+v", body)
	}
	if body.Entries[0].Seq != 1 || body.Entries[0].Kind != "absolute" || !body.Entries[0].Selected {
		t.Fatalf("unexpected first entry %+v", body.Entries[0])
	}
	if body.Entries[1].Kind != "relative" || body.Entries[1].R != 5 {
		t.Fatalf("unexpected second entry %+v", body.Entries[1])
	}
}

func TestToggleRoute(t *testing.T) {
	s := newTestServer(t, newFakeController())

	rr := do(t, s, http.MethodPost, "/log/2/toggle", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var body struct {
		Entry struct {
			Selected bool `json:"selected"`
		} `json:"entry"`
		Color rgb.Color `json:"color"`
	}
	decode(t, rr, &body)
	if body.Entry.Selected {
		t.Fatalf("expected entry 2 deselected")
	}
	if body.Color != (rgb.Color{R: 10, G: 20, B: 30}) {
		t.Fatalf("unexpected color %+v", body.Color)
	}

	if rr := do(t, s, http.MethodPost, "/log/99/toggle", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown seq, got %d", rr.Code)
	}
	if rr := do(t, s, http.MethodPost, "/log/abc/toggle", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad seq, got %d", rr.Code)
	}
}

func TestConnectAndShutdownRoutes(t *testing.T) {
	ctl := newFakeController()
	s := newTestServer(t, ctl)

	rr := do(t, s, http.MethodPost, "/connect", `{"address":"10.0.0.7"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if ctl.connected != "10.0.0.7" {
		t.Fatalf("unexpected connect address %q", ctl.connected)
	}

	rr = do(t, s, http.MethodPost, "/connect", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for default address, got %d body=%s", rr.Code, rr.Body.String())
	}
	if ctl.connected != "127.0.0.1:1234" {
		t.Fatalf("expected default address, got %q", ctl.connected)
	}

	ctl.connErr = client.ErrAlreadyConnected
	if rr := do(t, s, http.MethodPost, "/connect", `{"address":"x"}`); rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
	ctl.connErr = fmt.Errorf("%w: x: %w", session.ErrConnect, session.ErrAddressRequired)
	if rr := do(t, s, http.MethodPost, "/connect", `{"address":"x"}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if rr := do(t, s, http.MethodPost, "/connect", `{"address":`); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rr.Code)
	}

	if rr := do(t, s, http.MethodPost, "/shutdown", ""); rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ctl.shutdowns != 1 {
		t.Fatalf("expected one shutdown, got %d", ctl.shutdowns)
	}
}

func TestConnectFailureAgainstRealClient(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("listener unavailable: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	c := client.New(client.DefaultConfig(), nil)
	defer c.Close()
	s := newTestServer(t, c)

	rr := do(t, s, http.MethodPost, "/connect", fmt.Sprintf(`{"address":%q}`, addr))
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d body=%s", rr.Code, rr.Body.String())
	}
	var health struct {
		Session client.Status `json:"session"`
	}
	decode(t, do(t, s, http.MethodGet, "/health", ""), &health)
	if health.Session.StateName != session.StateDisconnected.String() || health.Session.LastError == "" {
		t.Fatalf("unexpected session status %+v", health.Session)
	}
}

func TestMetricsRoute(t *testing.T) {
	s := newTestServer(t, newFakeController())
	do(t, s, http.MethodGet, "/color", "")

	rr := do(t, s, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "rgbctl_http_requests_total") {
		t.Fatalf("expected admin request metric in scrape output")
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("listener unavailable: %v", err)
	}
	s := newTestServer(t, newFakeController())
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not stop")
	}
}

func TestRunRequiresListenAddr(t *testing.T) {
	testlog.Start(t)
	s := New(Config{}, newFakeController(), zerolog.Nop())
	if err := s.Run(context.Background()); err != ErrListenAddrRequired {
		t.Fatalf("expected ErrListenAddrRequired, got %v", err)
	}
}
