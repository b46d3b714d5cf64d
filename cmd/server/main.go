package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/binpoint/wms/internal/config"
	"github.com/binpoint/wms/internal/scheduler"
	"github.com/binpoint/wms/internal/server/handlers"
	"github.com/binpoint/wms/internal/server/router"
	rackstructuresvc "github.com/binpoint/wms/internal/service/rackstructure"
	reportsvc "github.com/binpoint/wms/internal/service/report"
	sheetssink "github.com/binpoint/wms/internal/sink/sheets"
	webhooksink "github.com/binpoint/wms/internal/sink/webhook"
	"github.com/binpoint/wms/internal/store/mongodb"
	"github.com/binpoint/wms/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	docStore, err := mongodb.New(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("store.mongodb"))
	if err != nil {
		baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
	}
	defer func() {
		if err := docStore.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var sinks []reportsvc.Sink
	if cfg.Sheets.SpreadsheetID != "" {
		sheetsSink, err := sheetssink.New(context.Background(), cfg.Sheets.CredentialsPath, cfg.Sheets.SpreadsheetID, cfg.Sheets.Range, baseLogger.Named("sink.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets sink", zap.Error(err))
		}
		sinks = append(sinks, sheetsSink)
		baseLogger.Info("sheets report sink enabled")
	}
	if cfg.Renderer.BaseURL != "" {
		sinks = append(sinks, webhooksink.New(cfg.Renderer.BaseURL, cfg.Renderer.Path, cfg.Renderer.AuthToken, baseLogger.Named("sink.webhook")))
		baseLogger.Info("webhook report sink enabled")
	}
	if len(sinks) == 0 {
		baseLogger.Warn("no report sinks configured, reports are API-only")
	}

	rackManager := rackstructuresvc.NewManager(docStore, baseLogger.Named("svc.rackstructure"))
	reportService := reportsvc.NewService(docStore, sinks, cfg.Reporting.Workers, baseLogger.Named("svc.report"))

	rackHandler := handlers.NewRackHandler(rackManager, baseLogger.Named("handlers.racks"))
	reportHandler := handlers.NewReportHandler(reportService, baseLogger.Named("handlers.reports"))
	engine := router.New(rackHandler, reportHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting, reportService, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
