package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/GregMSThompson/sales-dashboard/internal/bootstrap"
	"github.com/GregMSThompson/sales-dashboard/internal/config"
	"github.com/GregMSThompson/sales-dashboard/internal/handlers"
	"github.com/GregMSThompson/sales-dashboard/internal/present"
	"github.com/GregMSThompson/sales-dashboard/internal/response"
	"github.com/GregMSThompson/sales-dashboard/internal/router"
	"github.com/GregMSThompson/sales-dashboard/internal/services"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// local runs read .env; Cloud Run sets the environment directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		exitOnError("load .env failed", err, slog.Default())
	}

	// bootstrap
	cfg, err := config.New()
	exitOnError("invalid configuration", err, slog.Default())
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)

	// services
	dealsvc := services.NewDealService(bs.BitrixAdapter, bs.Catalog, bs.RetryPolicy)
	dashsvc := services.NewDashboardService(dealsvc, bs.Catalog, bs.Location, cfg.FetchTimeout)
	snapsvc := services.NewSnapshotCache(dashsvc, cfg.DedupeWindow)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = response.New(bs.Log)
	deps.DashboardSvc = snapsvc
	deps.Catalog = bs.Catalog
	deps.Formatter = present.New(bs.Location)
	deps.PollInterval = cfg.PollInterval
	deps.StaticDir = cfg.StaticDir

	// router
	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           router.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.FetchTimeout + 15*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		bs.Log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			exitOnError("server start failed", err, bs.Log)
		}
	}()

	<-ctx.Done()
	bs.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exitOnError("server shutdown failed", srv.Shutdown(shutdownCtx), bs.Log)
}
