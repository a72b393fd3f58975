package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"shopsearch/internal/apis/shopping/usecases"
	"shopsearch/internal/bootstrap"
	"shopsearch/internal/config"
	httpserver "shopsearch/internal/http-server"
	"shopsearch/internal/http-server/view"
	"shopsearch/internal/http-server/websession"
	"shopsearch/internal/logger"
)

func main() {
	var (
		configPath = flag.String("config", "./config/config.yaml", "path to config.yaml")
		host       = flag.String("host", "", "override host")
		port       = flag.Int("port", 0, "override port")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
		Env:       cfg.Env,
	})
	slog.SetDefault(log)

	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	shop, err := bootstrap.BuildService(cfg, log)
	if err != nil {
		log.Error("build backend client failed", "err", err)
		os.Exit(1)
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Error("load templates failed", "err", err)
		os.Exit(1)
	}

	sessions := websession.New(websession.Options{
		Lifetime:   cfg.SessionLifetime(),
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Env == "prod",
	})

	web := httpserver.New(log, sessions)
	web.RegisterRoutes(httpserver.Deps{
		Search:      usecases.NewSearchService(shop, log),
		Spreadsheet: usecases.NewExportService(shop, log),
		Renderer:    renderer,
		Timeout:     cfg.Timeout(),
	})

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))

	srv := &http.Server{
		Addr:              addr,
		Handler:           web.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweepStates(ctx, sessions, cfg.SessionLifetime(), log)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Info("web started", "addr", addr, "backend", cfg.Backend.BaseURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case sig := <-stop:
		log.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
			_ = srv.Close()
		}
		log.Info("server stopped gracefully")

	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("server closed")
			return
		}
		log.Error("server stopped with error", "err", err)
		os.Exit(1)
	}
}

// sweepStates forgets visitor state once its session can no longer exist.
func sweepStates(ctx context.Context, sessions *websession.Manager, idle time.Duration, log *slog.Logger) {
	t := time.NewTicker(idle / 4)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := sessions.States.Sweep(idle); n > 0 {
				log.Debug("visitor states swept", "count", n)
			}
		}
	}
}
