package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mark2cure/cache"
	"mark2cure/config"
	"mark2cure/database"
	"mark2cure/handlers"
	"mark2cure/logger"
	"mark2cure/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	db, err := database.Init(cfg, log)
	if err != nil {
		return err
	}

	c, err := cache.New(cfg.Redis)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	dates, err := services.LoadReleaseDates(cfg.Data.ReleaseDates)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if sqlDB, err := db.DB(); err == nil {
		reg.MustRegister(collectors.NewDBStatsCollector(sqlDB, "mark2cure"))
	}

	srv := &http.Server{
		Addr: cfg.ServerAddr(),
		Handler: handlers.NewRouter(handlers.Deps{
			DB:           db,
			Cache:        c,
			Config:       cfg,
			ReleaseDates: dates,
			Registry:     reg,
			Log:          log,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server exited")
	return nil
}
