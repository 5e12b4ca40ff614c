package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danmuck/rgbctl/internal/protocol"
	"github.com/danmuck/rgbctl/internal/testutil/testlog"
)

func TestLoadAppConfigExample(t *testing.T) {
	testlog.Start(t)
	cfg, err := loadAppConfig("ex.config.toml")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Address != "127.0.0.1" {
		t.Fatalf("unexpected address: %q", cfg.Address)
	}
	if !cfg.AutoConnect {
		t.Fatalf("expected auto connect enabled")
	}
	if cfg.Client.Session.Port != 1234 {
		t.Fatalf("unexpected port: %d", cfg.Client.Session.Port)
	}
	if cfg.Client.Session.ConnectTimeout != 3*time.Second {
		t.Fatalf("unexpected connect timeout: %v", cfg.Client.Session.ConnectTimeout)
	}
	if cfg.Client.Session.ReadTimeout != 0 {
		t.Fatalf("expected no read timeout, got %v", cfg.Client.Session.ReadTimeout)
	}
	if cfg.Admin.ListenAddr != "127.0.0.1:7070" {
		t.Fatalf("unexpected admin listen: %q", cfg.Admin.ListenAddr)
	}
	if len(cfg.Admin.CorsOrigins) != 1 || cfg.Admin.CorsOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected cors origins: %+v", cfg.Admin.CorsOrigins)
	}
	if cfg.Admin.DefaultAddress != "127.0.0.1" {
		t.Fatalf("expected admin default address from config, got %q", cfg.Admin.DefaultAddress)
	}
}

func TestLoadAppConfigDefaults(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("address = \"10.1.1.1\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := loadAppConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Client.Session.Port != protocol.DefaultPort {
		t.Fatalf("expected default port, got %d", cfg.Client.Session.Port)
	}
	if cfg.AutoConnect {
		t.Fatalf("expected auto connect disabled by default")
	}
	if cfg.Admin.ListenAddr == "" {
		t.Fatalf("expected default admin listen addr")
	}
}

func TestLoadAppConfigRejectsInvalid(t *testing.T) {
	testlog.Start(t)
	cases := map[string]string{
		"bad duration": "read_timeout = \"later\"\n",
		"bad port":     "port = 0\n",
		"unknown key":  "colour = \"red\"\n",
	}
	for name, body := range cases {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := loadAppConfig(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
