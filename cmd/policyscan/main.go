package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/common"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/pipeline"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/recognize"
	"github.com/Owen1221111/investmentdashboard-legal-sub002/internal/repository"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	save := flag.Bool("save", false, "persist extracted records to the database")
	flag.Parse()

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "policyscan [-save] <image-file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	_ = godotenv.Load()
	cfg := common.LoadConfig()

	img, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read image failed", "path", path, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rec := recognize.NewTesseract(recognize.TesseractConfig{
		TessdataDir: cfg.OCR.TessdataDir,
		Languages:   cfg.OCR.Languages,
	}, logger)
	extractor := pipeline.NewExtractor(rec, nil, logger)

	start := time.Now()
	res, err := extractor.ExtractImage(ctx, img)
	dur := time.Since(start)
	if err != nil {
		logger.Error("extraction failed", "path", path, "error", err, "duration_ms", dur.Milliseconds())
		os.Exit(1)
	}

	logger.Info("extraction OK",
		"rotation", int(res.Rotation),
		"lines", len(res.Lines),
		"tabular", res.Tabular,
		"records", len(res.Records),
		"duration_ms", dur.Milliseconds(),
	)

	enc := json.NewEncoder(os.Stdout)
	for _, r := range res.Records {
		if err := enc.Encode(r); err != nil {
			logger.Error("encode record failed", "error", err)
			os.Exit(1)
		}
	}

	if !*save {
		return
	}
	db, err := repository.Open(ctx, repository.Config{
		DSN:           cfg.Database.DSN,
		MaxConns:      cfg.Database.MaxConns,
		DialTimeout:   cfg.Database.DialTimeout,
		HealthTimeout: cfg.Database.HealthTimeout,
	}, logger)
	if err != nil {
		logger.Error("open db failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	policies := repository.NewPolicyRepository(db, logger)
	saved := 0
	for _, r := range res.Records {
		if r.IsEmpty() {
			continue
		}
		if _, err := policies.Create(ctx, r, "scan"); err != nil {
			logger.Error("save record failed", "error", err)
			continue
		}
		saved++
	}
	logger.Info("records saved", "count", saved)
}
