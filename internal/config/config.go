package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/danmuck/rgbctl/internal/source"
	"github.com/pelletier/go-toml/v2"
)

// SourceFile is the rgbsrv config.toml shape.
type SourceFile struct {
	ListenAddr      string `toml:"listen_addr"`
	Interval        string `toml:"interval"`
	AbsolutePercent *int   `toml:"absolute_percent"`
	MaxDelta        *int   `toml:"max_delta"`
	Seed            int64  `toml:"seed"`
}

// ClientFile is the rgbctl config.toml shape, used for validation only;
// rgbctl loads it with its own default overlay.
type ClientFile struct {
	Address         string   `toml:"address"`
	Port            int      `toml:"port"`
	ConnectTimeout  string   `toml:"connect_timeout"`
	ReadTimeout     string   `toml:"read_timeout"`
	AutoConnect     bool     `toml:"auto_connect"`
	AdminListenAddr string   `toml:"admin_listen_addr"`
	CorsOrigins     []string `toml:"cors_origins"`
}

// LoadSourceConfig reads path and overlays it onto source defaults.
func LoadSourceConfig(path string) (source.Config, error) {
	var raw SourceFile
	if err := loadToml(path, &raw); err != nil {
		return source.Config{}, err
	}
	cfg, err := raw.SourceConfig()
	if err != nil {
		return source.Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// SourceConfig converts the file shape into a validated source.Config.
func (f SourceFile) SourceConfig() (source.Config, error) {
	cfg := source.DefaultConfig()
	if addr := strings.TrimSpace(f.ListenAddr); addr != "" {
		cfg.ListenAddr = addr
	}
	if raw := strings.TrimSpace(f.Interval); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return source.Config{}, fmt.Errorf("parse interval: %w", err)
		}
		cfg.Interval = d
	}
	if f.AbsolutePercent != nil {
		cfg.AbsolutePercent = *f.AbsolutePercent
	}
	if f.MaxDelta != nil {
		cfg.MaxDelta = *f.MaxDelta
	}
	cfg.Seed = f.Seed
	if err := ValidateSourceConfig(cfg); err != nil {
		return source.Config{}, err
	}
	return cfg, nil
}

func ValidateSourceConfig(cfg source.Config) error {
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		return source.ErrListenAddrRequired
	}
	if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", cfg.Interval)
	}
	if cfg.AbsolutePercent < 0 || cfg.AbsolutePercent > 100 {
		return fmt.Errorf("absolute_percent must be within [0,100], got %d", cfg.AbsolutePercent)
	}
	if cfg.MaxDelta < 0 || cfg.MaxDelta > 127 {
		return fmt.Errorf("max_delta must be within [0,127], got %d", cfg.MaxDelta)
	}
	return nil
}

// ValidateClientFile rejects unknown keys and malformed durations.
func ValidateClientFile(path string) (ClientFile, error) {
	var raw ClientFile
	if err := loadToml(path, &raw); err != nil {
		return ClientFile{}, err
	}
	for key, value := range map[string]string{
		"connect_timeout": raw.ConnectTimeout,
		"read_timeout":    raw.ReadTimeout,
	} {
		if strings.TrimSpace(value) == "" {
			continue
		}
		if _, err := time.ParseDuration(strings.TrimSpace(value)); err != nil {
			return ClientFile{}, fmt.Errorf("config invalid (%s): parse %s: %w", path, key, err)
		}
	}
	if raw.Port < 0 || raw.Port > 65535 {
		return ClientFile{}, fmt.Errorf("config invalid (%s): port out of range: %d", path, raw.Port)
	}
	return raw, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("config parse failed (%s): %s", path, strict.String())
		}
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}
