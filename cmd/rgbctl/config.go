package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/rgbctl/internal/admin"
	"github.com/danmuck/rgbctl/internal/client"
)

type fileConfig struct {
	Address         string   `toml:"address"`
	Port            int      `toml:"port"`
	ConnectTimeout  string   `toml:"connect_timeout"`
	ReadTimeout     string   `toml:"read_timeout"`
	AutoConnect     bool     `toml:"auto_connect"`
	AdminListenAddr string   `toml:"admin_listen_addr"`
	CorsOrigins     []string `toml:"cors_origins"`
}

type appConfig struct {
	Address     string
	AutoConnect bool
	Client      client.Config
	Admin       admin.Config
}

func defaultAppConfig() appConfig {
	return appConfig{
		Client: client.DefaultConfig(),
		Admin:  admin.DefaultConfig(),
	}
}

func loadAppConfig(path string) (appConfig, error) {
	cfg := defaultAppConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return appConfig{}, fmt.Errorf("load rgbctl config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return appConfig{}, fmt.Errorf("load rgbctl config: unknown keys %v", undecoded)
	}

	if meta.IsDefined("address") {
		cfg.Address = strings.TrimSpace(raw.Address)
	}
	if meta.IsDefined("port") {
		if raw.Port <= 0 || raw.Port > 65535 {
			return appConfig{}, fmt.Errorf("port out of range: %d", raw.Port)
		}
		cfg.Client.Session.Port = raw.Port
	}
	if meta.IsDefined("connect_timeout") {
		d, err := parseOptionalDuration(raw.ConnectTimeout)
		if err != nil {
			return appConfig{}, fmt.Errorf("parse connect_timeout: %w", err)
		}
		cfg.Client.Session.ConnectTimeout = d
	}
	if meta.IsDefined("read_timeout") {
		d, err := parseOptionalDuration(raw.ReadTimeout)
		if err != nil {
			return appConfig{}, fmt.Errorf("parse read_timeout: %w", err)
		}
		cfg.Client.Session.ReadTimeout = d
	}
	if meta.IsDefined("auto_connect") {
		cfg.AutoConnect = raw.AutoConnect
	}
	if meta.IsDefined("admin_listen_addr") {
		cfg.Admin.ListenAddr = strings.TrimSpace(raw.AdminListenAddr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.Admin.CorsOrigins = normalizeOrigins(raw.CorsOrigins)
	}
	cfg.Admin.DefaultAddress = cfg.Address

	return cfg, nil
}

// empty means no deadline
func parseOptionalDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
