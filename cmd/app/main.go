package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"treasury_go/internal/app"
	"treasury_go/internal/handler"
	"treasury_go/internal/service"
	"treasury_go/internal/simulator"
	"treasury_go/internal/ws"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := bootstrap.Config

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Broadcast hub shared by the simulator and the trade lifecycle.
	hub := ws.NewHub(bootstrap.Metrics)

	bondSvc := service.NewBondService(bootstrap.Storage)
	tradeSvc := service.NewTradeService(bootstrap.Storage, hub, bootstrap.Metrics)

	// Seed the quote store on startup; a populated store is left untouched.
	if err := bondSvc.Initialize(); err != nil {
		slog.Error("seed initialization failed", slog.Any("error", err))
		os.Exit(1)
	}

	sim := simulator.New(
		bootstrap.Storage,
		hub,
		bootstrap.Metrics,
		time.Duration(cfg.Market.TickIntervalMS)*time.Millisecond,
		cfg.Market.Seed,
	)
	sim.Start(ctx)

	router := handler.NewRouter(bondSvc, tradeSvc, hub, bootstrap.Metrics, cfg.Server.AllowedOrigins, slog.Default())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSec) * time.Second,
	}

	go func() {
		slog.Info("server starting", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down gracefully...")

	sim.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", slog.Any("error", err))
	}

	slog.Info("server stopped")
}
