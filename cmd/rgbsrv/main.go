package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/danmuck/rgbctl/internal/config"
	"github.com/danmuck/rgbctl/internal/observability"
	"github.com/danmuck/rgbctl/internal/source"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var (
		path        string
		listen      string
		metricsAddr string
	)
	flag.StringVar(&path, "config", "", "path to rgbsrv config.toml (defaults apply when empty)")
	flag.StringVar(&listen, "listen", "", "override listen_addr")
	flag.StringVar(&metricsAddr, "metrics", "", "serve /metrics on this address when set")
	flag.Parse()

	if err := run(path, listen, metricsAddr); err != nil {
		fmt.Fprintf(os.Stderr, "rgbsrv: %v\n", err)
		os.Exit(1)
	}
}

func run(path, listen, metricsAddr string) error {
	logger := observability.InitLogger("rgbsrv")
	observability.RegisterMetrics()

	cfg := source.DefaultConfig()
	if strings.TrimSpace(path) != "" {
		loaded, err := config.LoadSourceConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if v := strings.TrimSpace(listen); v != "" {
		cfg.ListenAddr = v
	}
	if err := config.ValidateSourceConfig(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if v := strings.TrimSpace(metricsAddr); v != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: v, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Str("addr", v).Msg("rgbsrv metrics listener failed")
			}
		}()
		defer srv.Close()
	}

	logger.Info().
		Str("addr", cfg.ListenAddr).
		Dur("interval", cfg.Interval).
		Int("absolute_percent", cfg.AbsolutePercent).
		Int("max_delta", cfg.MaxDelta).
		Msg("rgbsrv starting")
	return source.NewServer(cfg).Run(ctx)
}
