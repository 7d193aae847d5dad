package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/common"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/export"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/ingest"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/pipeline"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/recognize"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/repository"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/server"
)

func main() {
	// Logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	log := logger.Sugar()

	// Env (.env is optional)
	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(slogger)

	// DB
	db, err := repository.Open(ctx, repository.Config{
		DSN:           cfg.Database.DSN,
		MaxConns:      cfg.Database.MaxConns,
		DialTimeout:   cfg.Database.DialTimeout,
		HealthTimeout: cfg.Database.HealthTimeout,
	}, slogger)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := db.HealthCheck(ctx, cfg.Database.HealthTimeout, slogger); err != nil {
		log.Fatalf("database health failed: %v", err)
	}
	log.Infow("database health OK")

	policies := repository.NewPolicyRepository(db, slogger)
	jobs := repository.NewScanJobRepository(db, slogger)

	// Extraction pipeline over the tesseract recognizer
	rec := recognize.NewTesseract(recognize.TesseractConfig{
		TessdataDir: cfg.OCR.TessdataDir,
		Languages:   cfg.OCR.Languages,
	}, slogger)
	extractor := pipeline.NewExtractor(rec, nil, slogger)

	// Watch-folder ingest (only when roots are configured)
	if len(cfg.Ingest.Roots) > 0 {
		files, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:    cfg.Ingest.Roots,
			Debounce: cfg.Ingest.Debounce,
		}, slogger)
		if err != nil {
			log.Fatalf("starting watcher: %v", err)
		}
		ingestor := ingest.NewIngestor(extractor, policies, jobs, slogger)
		go ingestor.Run(ctx, files)
		go func() {
			for werr := range errs {
				log.Warnw("watcher error", "err", werr)
			}
		}()
		log.Infow("watch-folder ingest started", "roots", cfg.Ingest.Roots)
	}

	// HTTP server
	exporter := export.NewService(policies, slogger)
	srv := server.New(extractor, policies, jobs, exporter, slogger)
	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(),
	}

	go func() {
		log.Infof("HTTP serving on %s", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warnf("http shutdown: %v", err)
	}
	log.Info("stopped.")
}
