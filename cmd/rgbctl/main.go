package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/danmuck/rgbctl/internal/admin"
	"github.com/danmuck/rgbctl/internal/client"
	"github.com/danmuck/rgbctl/internal/cmdlog"
	"github.com/danmuck/rgbctl/internal/observability"
	"github.com/danmuck/rgbctl/internal/protocol/session"
	"github.com/danmuck/rgbctl/internal/rgb"
	"github.com/rs/zerolog"
)

func main() {
	var path string
	flag.StringVar(&path, "config", "", "path to rgbctl config.toml (defaults apply when empty)")
	flag.Parse()

	if err := run(path); err != nil {
		fmt.Fprintf(os.Stderr, "rgbctl: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	logger := observability.InitLogger("rgbctl")
	observability.RegisterMetrics()

	cfg := defaultAppConfig()
	if strings.TrimSpace(path) != "" {
		loaded, err := loadAppConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := client.New(cfg.Client, printer(logger))
	defer c.Close()

	if cfg.AutoConnect {
		if err := c.Connect(ctx, cfg.Address); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Address).Msg("rgbctl auto connect failed")
		}
	}

	if strings.TrimSpace(cfg.Admin.ListenAddr) == "" {
		<-ctx.Done()
		logger.Info().Msg("rgbctl shutdown")
		return nil
	}
	srv := admin.New(cfg.Admin, c, logger)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info().Msg("rgbctl shutdown")
	return nil
}

// printer renders events as console lines.
func printer(logger zerolog.Logger) session.Observer {
	return session.ObserverFuncs{
		Command: func(entry *cmdlog.Entry) {
			if entry == nil {
				logger.Info().Msg("Disconnected")
				return
			}
			logger.Info().Uint64("seq", entry.Seq).Msgf("Command: %s", entry.Command)
		},
		Color: func(color rgb.Color) {
			logger.Info().Msgf("Color: %s", color)
		},
	}
}
