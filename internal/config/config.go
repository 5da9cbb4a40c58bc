package config

import (
	"errors"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Artifact overrides; empty string means the embedded artifact.
	PinCodesPath string
	ScalerPath   string
	ModelPath    string

	// Live weather overlay configuration.
	WeatherAPIKey   string
	WeatherEnabled  bool
	WeatherRequired bool
	WeatherTimeout  time.Duration

	// Medical-history adjustment. Off by default: the published score has
	// historically been the base model output.
	AdjusterEnabled bool

	// Audit destination (Google Sheets) configuration.
	AuditEnabled          bool
	SheetsCredentialsFile string
	SpreadsheetID         string
	SheetName             string
	AuditTimeout          time.Duration

	// Audit event stream (Kafka mirror) configuration.
	StreamEnabled bool
	KafkaBrokers  []string
	KafkaTopic    string
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	weatherTimeoutStr := sharedcfg.EnvOrDefault("WEATHER_TIMEOUT", "5s")
	weatherTimeout, err := time.ParseDuration(weatherTimeoutStr)
	if err != nil || weatherTimeout <= 0 {
		return nil, errors.New("invalid WEATHER_TIMEOUT")
	}

	auditTimeoutStr := sharedcfg.EnvOrDefault("AUDIT_TIMEOUT", "10s")
	auditTimeout, err := time.ParseDuration(auditTimeoutStr)
	if err != nil || auditTimeout <= 0 {
		return nil, errors.New("invalid AUDIT_TIMEOUT")
	}

	weatherAPIKey := os.Getenv("OPENWEATHER_API_KEY")
	weatherEnabled := weatherAPIKey != ""
	if v := os.Getenv("WEATHER_ENABLED"); v != "" {
		weatherEnabled = v == "true"
	}

	spreadsheetID := os.Getenv("SHEETS_SPREADSHEET_ID")
	auditEnabled := spreadsheetID != ""
	if v := os.Getenv("AUDIT_ENABLED"); v != "" {
		auditEnabled = v == "true"
	}

	kafkaTopic := sharedcfg.EnvOrDefault("KAFKA_AUDIT_TOPIC", "scored-risk-events")
	streamEnabled := os.Getenv("AUDIT_STREAM_ENABLED") == "true"

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		PinCodesPath: os.Getenv("PIN_CODES_PATH"),
		ScalerPath:   os.Getenv("SCALER_PATH"),
		ModelPath:    os.Getenv("MODEL_PATH"),

		WeatherAPIKey:   weatherAPIKey,
		WeatherEnabled:  weatherEnabled,
		WeatherRequired: os.Getenv("WEATHER_REQUIRED") == "true",
		WeatherTimeout:  weatherTimeout,

		AdjusterEnabled: os.Getenv("ADJUSTER_ENABLED") == "true",

		AuditEnabled:          auditEnabled,
		SheetsCredentialsFile: os.Getenv("SHEETS_CREDENTIALS_FILE"),
		SpreadsheetID:         spreadsheetID,
		SheetName:             sharedcfg.EnvOrDefault("SHEETS_SHEET_NAME", "Sheet1"),
		AuditTimeout:          auditTimeout,

		StreamEnabled: streamEnabled,
		KafkaBrokers:  sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:    kafkaTopic,
	}

	if cfg.WeatherEnabled && cfg.WeatherAPIKey == "" {
		return nil, errors.New("WEATHER_ENABLED is true but OPENWEATHER_API_KEY is not set")
	}
	if cfg.WeatherRequired && !cfg.WeatherEnabled {
		return nil, errors.New("WEATHER_REQUIRED is true but the weather overlay is disabled")
	}
	if cfg.AuditEnabled && cfg.SpreadsheetID == "" {
		return nil, errors.New("AUDIT_ENABLED is true but SHEETS_SPREADSHEET_ID is not set")
	}
	if cfg.StreamEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("AUDIT_STREAM_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.StreamEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("AUDIT_STREAM_ENABLED is true but KAFKA_AUDIT_TOPIC is empty")
	}

	return cfg, nil
}
