package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docsite/internal/articles"
	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/dialog"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/observability"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Format      string `short:"f" help:"Sidebar output format (yaml, json)" enum:"yaml,json" default:"yaml"`
	MetricsAddr string `name:"metrics-addr" help:"Serve Prometheus metrics on this address (overrides metrics.addr)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return w.run(ctx, g, cfg, root.articlesDir(cfg))
}

func (w *WatchCmd) run(ctx context.Context, g *Global, cfg *config.Config, dir string) error {
	ctx = observability.WithCommand(ctx, "watch")

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if addr := w.metricsAddr(cfg); addr != "" {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		stop, err := serveMetrics(ctx, g.Logger, addr, reg)
		if err != nil {
			return err
		}
		defer stop()
	}

	debounce, err := cfg.DebounceDuration()
	if err != nil {
		return err
	}
	interval, err := cfg.RescanIntervalDuration()
	if err != nil {
		return err
	}

	bus := dialog.NewBus(dialog.WithLogger(g.Logger), dialog.WithRecorder(recorder))
	host := dialog.NewHost(bus, dialog.DefaultRegistry(), g.Out,
		dialog.WithHostLogger(g.Logger), dialog.WithHostRecorder(recorder))
	host.Attach()
	defer host.Detach()

	watcher, err := articles.NewWatcher(dir, articles.WatcherOptions{
		Scan:           scanOptions(cfg, dir, g.Logger),
		Debounce:       debounce,
		RescanInterval: interval,
		Recorder:       recorder,
		Logger:         g.Logger,
	}, func(snap articles.Snapshot) {
		w.report(observability.WithReloadID(ctx, snap.ID), g, bus, snap)
	})
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}

func (w *WatchCmd) metricsAddr(cfg *config.Config) string {
	if w.MetricsAddr != "" {
		return w.MetricsAddr
	}
	if cfg.Metrics.Enabled {
		return cfg.Metrics.Addr
	}
	return ""
}

// report prints the new sidebar and raises a notice for removed articles.
func (w *WatchCmd) report(ctx context.Context, g *Global, bus *dialog.Bus, snap articles.Snapshot) {
	if err := site.Encode(g.Out, w.Format, snap.Articles); err != nil {
		observability.ErrorContext(ctx, g.Logger, "Failed to print sidebar", logfields.Error(err))
	}
	if snap.Trigger == articles.TriggerInitial || len(snap.Removed) == 0 {
		return
	}

	names := make([]string, 0, len(snap.Removed))
	for _, a := range snap.Removed {
		names = append(names, a.Text)
	}
	observability.InfoContext(ctx, g.Logger, "Articles removed", logfields.Articles(len(names)))
	dialog.OpenKind(bus, dialog.Notice, dialog.NoticeContext{
		Title:   "Articles removed",
		Message: fmt.Sprintf("Removed from the sidebar: %s", strings.Join(names, ", ")),
	})
}

// serveMetrics starts the /metrics endpoint; the returned func shuts it down.
func serveMetrics(ctx context.Context, logger *slog.Logger, addr string, reg *prom.Registry) (func(), error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Surface immediate bind failures before the watcher starts.
	select {
	case err := <-errCh:
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "start metrics server").
			WithContext("addr", addr).
			Build()
	case <-time.After(100 * time.Millisecond):
	}
	observability.InfoContext(ctx, logger, "Serving metrics", logfields.Addr(addr))

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Metrics server shutdown failed", logfields.Error(err))
		}
	}, nil
}
