// Command riskd serves the environmental health risk scoring API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/health-risk-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/health-risk-service/internal/adapter/kafka"
	"github.com/couchcryptid/health-risk-service/internal/adapter/openweather"
	"github.com/couchcryptid/health-risk-service/internal/adapter/sheets"
	"github.com/couchcryptid/health-risk-service/internal/audit"
	"github.com/couchcryptid/health-risk-service/internal/config"
	"github.com/couchcryptid/health-risk-service/internal/features"
	"github.com/couchcryptid/health-risk-service/internal/model"
	"github.com/couchcryptid/health-risk-service/internal/observability"
	"github.com/couchcryptid/health-risk-service/internal/scoring"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Reference tables are load-once; a missing profile table is fatal.
	profiles, err := features.Load(cfg.PinCodesPath)
	if err != nil {
		logger.Error("failed to load pin code profiles", "error", err)
		os.Exit(1)
	}

	// Model artifacts. A load failure disables scoring but keeps the HTTP
	// surface up so the failure is visible through /readyz instead of a
	// crash loop.
	var (
		scaler    scoring.Normalizer
		predictor scoring.Predictor
	)
	if s, err := model.LoadScaler(cfg.ScalerPath); err != nil {
		logger.Error("scaler artifact unavailable, scoring disabled", "error", err)
	} else if m, err := model.LoadModel(cfg.ModelPath); err != nil {
		logger.Error("model artifact unavailable, scoring disabled", "error", err)
	} else {
		scaler, predictor = s, m
	}

	// Weather overlay (feature-flagged via OPENWEATHER_API_KEY / WEATHER_ENABLED).
	var weather scoring.WeatherSource
	if cfg.WeatherEnabled {
		weather = openweather.NewClient(cfg.WeatherAPIKey, cfg.WeatherTimeout, metrics, logger)
		metrics.WeatherEnabled.Set(1)
		logger.Info("weather overlay enabled", "timeout", cfg.WeatherTimeout, "required", cfg.WeatherRequired)
	} else {
		logger.Info("weather overlay disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Audit destination (feature-flagged via SHEETS_SPREADSHEET_ID / AUDIT_ENABLED).
	var auditor scoring.Auditor
	if cfg.AuditEnabled {
		dest, err := sheets.NewDestination(ctx, cfg.SheetsCredentialsFile, cfg.SpreadsheetID, cfg.SheetName, logger)
		if err != nil {
			logger.Error("failed to create audit destination", "error", err)
			os.Exit(1)
		}
		auditor = audit.NewLog(dest, cfg.AuditTimeout, metrics, logger)
		logger.Info("audit log enabled", "spreadsheet_id", cfg.SpreadsheetID, "sheet", cfg.SheetName, "timeout", cfg.AuditTimeout)
	} else {
		logger.Info("audit log disabled")
	}

	// Audit event stream (feature-flagged via AUDIT_STREAM_ENABLED).
	var stream scoring.EventPublisher
	var streamCloser *kafkaadapter.Stream
	if cfg.StreamEnabled {
		streamCloser = kafkaadapter.NewStream(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		stream = streamCloser
		logger.Info("audit event stream enabled", "topic", cfg.KafkaTopic)
	}

	svc := scoring.NewService(profiles, weather, scaler, predictor, auditor, stream, scoring.Config{
		WeatherEnabled:  cfg.WeatherEnabled,
		WeatherRequired: cfg.WeatherRequired,
		AdjusterEnabled: cfg.AdjusterEnabled,
	}, metrics, logger)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if streamCloser != nil {
		if err := streamCloser.Close(); err != nil {
			logger.Error("audit stream close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
