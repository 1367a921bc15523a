package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"learnflow-be/internal/bootstrap"
	"learnflow-be/internal/config"
	"learnflow-be/internal/pkg/logger"
	"learnflow-be/internal/server"
	"learnflow-be/internal/tracer"
	"learnflow-be/pkg/database"

	"golang.org/x/sync/errgroup"
)

func main() {
	// 1. Load configuration
	cfg := config.Load()

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.ReplaceGlobals()()
	defer func() { _ = sysLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Tracing
	shutdownTracer := tracer.InitTracer(ctx, cfg.App, sysLogger)
	defer func() { _ = shutdownTracer(context.Background()) }()

	// 3. Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}

	// 4. Dependencies
	container, err := bootstrap.NewContainer(ctx, gormDB, cfg, sysLogger)
	if err != nil {
		log.Fatalf("Failed to bootstrap: %v", err)
	}
	defer container.Close()

	srv := server.New(cfg, container, sysLogger)

	// 5. Run server and background workers until a signal arrives
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		container.WebSocketHub.Run(gctx)
		return nil
	})
	g.Go(func() error { return container.NoteEvents.Run(gctx) })
	g.Go(func() error { return container.ConsumerService.Consume(gctx) })
	g.Go(func() error { return container.JanitorService.Run(gctx) })
	g.Go(srv.Run)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		sysLogger.Error("MAIN", "Stopped with error", map[string]interface{}{"error": err.Error()})
		return
	}
	sysLogger.Info("MAIN", "Shutdown complete", nil)
}
