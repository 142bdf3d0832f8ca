package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/salary-predictor/backend/internal/api"
	"github.com/salary-predictor/backend/internal/classifier"
	"github.com/salary-predictor/backend/internal/config"
	"github.com/salary-predictor/backend/internal/logger"
	"github.com/salary-predictor/backend/internal/models"
	"github.com/salary-predictor/backend/internal/parser"
	"github.com/salary-predictor/backend/internal/predictor"
	"github.com/salary-predictor/backend/internal/storage"
	"github.com/salary-predictor/backend/internal/web"
	"go.uber.org/zap"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Get the executable's directory for config resolution
	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}
	defaultConfig := filepath.Join(filepath.Dir(exePath), config.FileName)

	configPath := flag.String("config", defaultConfig, "path to the XML configuration file")
	flag.Parse()

	envFile, err := config.LoadDotEnv(*configPath)
	if err != nil {
		fmt.Printf("Failed to load environment file: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Options{
		Level:      cfg.Advanced.LogLevel,
		Format:     cfg.Advanced.LogFormat,
		File:       cfg.Advanced.LogFile,
		MaxSizeMB:  cfg.Advanced.LogMaxSizeMB,
		MaxBackups: cfg.Advanced.LogMaxBackups,
		MaxAgeDays: cfg.Advanced.LogMaxAgeDays,
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if envFile != "" {
		log.Info("loaded environment file", zap.String("path", envFile))
	}

	// The page is useless without a model, so a bad artifact stops start-up.
	schema := models.EmployeeSchema()
	model, err := classifier.Load(cfg.Model.ArtifactPath)
	if err != nil {
		log.Fatal("failed to load model", zap.String("path", cfg.Model.ArtifactPath), zap.Error(err))
	}
	if err := classifier.CheckSchema(model, schema); err != nil {
		log.Fatal("model does not match the employee form", zap.Error(err))
	}
	for column, options := range classifier.UnknownOptions(model, schema) {
		log.Warn("form offers values the model has never seen",
			zap.String("column", column), zap.Strings("options", options))
	}
	info := model.Info()
	log.Info("model loaded",
		zap.String("type", info.Type),
		zap.Strings("classes", info.Classes),
		zap.String("path", cfg.Model.ArtifactPath))

	batchParser := parser.NewCSVBatchParser(parser.Options{
		Schema:             schema,
		RejectExtraColumns: cfg.Batch.RejectExtraColumns,
		MaxRows:            cfg.Batch.MaxRows,
	})
	store := storage.NewMemoryStore(cfg.Batch.MaxStoredResults, cfg.ResultTTL())

	handlers := api.NewHandlers(&api.Dependencies{
		Model:         model,
		Record:        predictor.NewRecordPredictor(model, cfg.Model.PositiveLabel, log),
		Batch:         predictor.NewBatchPredictor(model, batchParser, log),
		Store:         store,
		Schema:        schema,
		PositiveLabel: cfg.Model.PositiveLabel,
		PreviewRows:   cfg.Batch.PreviewRows,
		Version:       Version,
		Logger:        log,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	api.SetupMiddleware(e, api.MiddlewareOptions{
		Logger:             log,
		Schema:             schema,
		RequestLogging:     cfg.Advanced.EnableRequestLogging,
		ExposeErrorDetails: cfg.Advanced.ExposeErrorDetails,
		BodyLimit:          cfg.Server.BodyLimit,
		EnableCORS:         cfg.Server.EnableCORS,
		AllowOrigins:       cfg.Origins(),
		EnableCompression:  cfg.Advanced.EnableCompression,
		CompressionLevel:   cfg.Advanced.CompressionLevel,
		Timeout:            cfg.ReadTimeout(),
	})
	api.RegisterRoutes(e, handlers, cfg.Advanced.EnableMetrics)

	// Register embedded frontend if available
	embeddedMode := web.HasEmbeddedFiles()
	if embeddedMode {
		if err := web.RegisterStaticRoutes(e); err != nil {
			log.Warn("failed to register static routes", zap.Error(err))
			embeddedMode = false
		}
	}

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  cfg.IdleTimeout(),
	}

	mode := "API only"
	if embeddedMode {
		mode = "Embedded page"
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           Employee Salary Predictor                       ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("║  Mode:       %-45s║\n", mode)
	fmt.Printf("║  Model:      %-45s║\n", info.Type)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", *configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")

	if embeddedMode {
		fmt.Printf("Open http://localhost:%d in your browser\n\n", cfg.Server.Port)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := e.StartServer(s); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
