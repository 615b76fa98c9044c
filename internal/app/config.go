package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/scrapstack/hardware-prices-backend/internal/logger"
	"github.com/scrapstack/hardware-prices-backend/internal/utils"
)

const (
	BackendSheets   = "sheets"
	BackendDatabase = "database"
)

type SheetsConfig struct {
	SpreadsheetID   string
	ReadRange       string
	CredentialsFile string
}

type DatabaseConfig struct {
	Driver string
	DSN    string
}

type Config struct {
	Port          string
	LogMode       string
	Environment   string
	SourceBackend string
	CacheTTL      time.Duration
	FetchTimeout  time.Duration
	Sheets        SheetsConfig
	Database      DatabaseConfig
	TracingOn     bool
	ServiceName   string
	OTLPEndpoint  string
}

// fileConfig mirrors Config for the optional YAML overlay. Pointer fields so
// only keys present in the file override the environment.
type fileConfig struct {
	Port          *string `yaml:"port"`
	SourceBackend *string `yaml:"source_backend"`
	CacheTTL      *int    `yaml:"cache_ttl_seconds"`
	FetchTimeout  *int    `yaml:"fetch_timeout_seconds"`
	Sheets        struct {
		SpreadsheetID   *string `yaml:"spreadsheet_id"`
		ReadRange       *string `yaml:"read_range"`
		CredentialsFile *string `yaml:"credentials_file"`
	} `yaml:"sheets"`
	Database struct {
		Driver *string `yaml:"driver"`
		DSN    *string `yaml:"dsn"`
	} `yaml:"database"`
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Port:          utils.GetEnv("PORT", "8000", log),
		LogMode:       utils.GetEnv("LOG_MODE", "development", log),
		Environment:   utils.GetEnv("ENVIRONMENT", "development", log),
		SourceBackend: utils.GetEnv("SOURCE_BACKEND", BackendSheets, log),
		CacheTTL:      time.Duration(utils.GetEnvAsInt("CATALOG_CACHE_TTL_SECONDS", 600, log)) * time.Second,
		FetchTimeout:  time.Duration(utils.GetEnvAsInt("SOURCE_FETCH_TIMEOUT_SECONDS", 30, log)) * time.Second,
		Sheets: SheetsConfig{
			SpreadsheetID:   utils.GetEnv("SHEETS_SPREADSHEET_ID", "", log),
			ReadRange:       utils.GetEnv("SHEETS_RANGE", "Sheet1", log),
			CredentialsFile: utils.GetEnv("GOOGLE_APPLICATION_CREDENTIALS", "", log),
		},
		Database: DatabaseConfig{
			Driver: utils.GetEnv("DATABASE_DRIVER", "sqlite", log),
			DSN:    utils.GetEnv("DATABASE_DSN", "hardware.db", log),
		},
		TracingOn:    utils.GetEnv("OTEL_ENABLED", "", log) == "true",
		ServiceName:  utils.GetEnv("OTEL_SERVICE_NAME", "hardware-prices-api", log),
		OTLPEndpoint: utils.GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
	}

	if path := utils.GetEnv("CONFIG_FILE", "", log); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return cfg, fmt.Errorf("load config file %s: %w", path, err)
		}
		log.Info("Applied config file overlay", "path", path)
	}

	switch cfg.SourceBackend {
	case BackendSheets, BackendDatabase:
	default:
		return cfg, fmt.Errorf("unsupported SOURCE_BACKEND %q", cfg.SourceBackend)
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return err
	}
	if fc.Port != nil {
		cfg.Port = *fc.Port
	}
	if fc.SourceBackend != nil {
		cfg.SourceBackend = *fc.SourceBackend
	}
	if fc.CacheTTL != nil {
		cfg.CacheTTL = time.Duration(*fc.CacheTTL) * time.Second
	}
	if fc.FetchTimeout != nil {
		cfg.FetchTimeout = time.Duration(*fc.FetchTimeout) * time.Second
	}
	if fc.Sheets.SpreadsheetID != nil {
		cfg.Sheets.SpreadsheetID = *fc.Sheets.SpreadsheetID
	}
	if fc.Sheets.ReadRange != nil {
		cfg.Sheets.ReadRange = *fc.Sheets.ReadRange
	}
	if fc.Sheets.CredentialsFile != nil {
		cfg.Sheets.CredentialsFile = *fc.Sheets.CredentialsFile
	}
	if fc.Database.Driver != nil {
		cfg.Database.Driver = *fc.Database.Driver
	}
	if fc.Database.DSN != nil {
		cfg.Database.DSN = *fc.Database.DSN
	}
	return nil
}
