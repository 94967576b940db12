// Package config reads the server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Store drivers
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMemory   = "memory"
)

// Export drivers
const (
	ExportFS = "fs"
	ExportS3 = "s3"
)

// Config holds everything the server needs at startup
type Config struct {
	StoreDriver string
	DBConnStr   string
	SQLitePath  string

	GRPCAddr    string
	MetricsAddr string

	Export ExportConfig

	SeedCatalogPath     string
	SeedCatalogEncoding string

	LogLevel  string
	LogFormat string
}

// ExportConfig selects where ledger exports are written
type ExportConfig struct {
	Driver string
	Dir    string

	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3Prefix          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3UsePathStyle    bool
}

// Load reads the configuration from environment variables, applying defaults
func Load() (*Config, error) {
	cfg := &Config{
		StoreDriver:         strings.ToLower(getenv("STORE_DRIVER", StoreSQLite)),
		DBConnStr:           dbConnString(),
		SQLitePath:          getenv("SQLITE_PATH", "./stockcal.db"),
		GRPCAddr:            getenv("GRPC_ADDR", ":8080"),
		MetricsAddr:         getenv("METRICS_ADDR", ":9090"),
		SeedCatalogPath:     os.Getenv("SEED_CATALOG_PATH"),
		SeedCatalogEncoding: strings.ToLower(getenv("SEED_CATALOG_ENCODING", "utf-8")),
		LogLevel:            getenv("LOG_LEVEL", "info"),
		LogFormat:           getenv("LOG_FORMAT", "text"),
		Export: ExportConfig{
			Driver:            strings.ToLower(getenv("EXPORT_DRIVER", ExportFS)),
			Dir:               getenv("EXPORT_DIR", "./data"),
			S3Bucket:          os.Getenv("EXPORT_S3_BUCKET"),
			S3Region:          getenv("EXPORT_S3_REGION", "us-east-1"),
			S3Endpoint:        os.Getenv("EXPORT_S3_ENDPOINT"),
			S3Prefix:          os.Getenv("EXPORT_S3_PREFIX"),
			S3AccessKeyID:     os.Getenv("EXPORT_S3_ACCESS_KEY_ID"),
			S3SecretAccessKey: os.Getenv("EXPORT_S3_SECRET_ACCESS_KEY"),
			S3UsePathStyle:    strings.EqualFold(os.Getenv("EXPORT_S3_USE_PATH_STYLE"), "true"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown drivers and missing required settings
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StorePostgres, StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q: must be postgres, sqlite, or memory", c.StoreDriver)
	}

	switch c.Export.Driver {
	case ExportFS:
		if c.Export.Dir == "" {
			return fmt.Errorf("EXPORT_DIR is required when EXPORT_DRIVER=fs")
		}
	case ExportS3:
		if c.Export.S3Bucket == "" {
			return fmt.Errorf("EXPORT_S3_BUCKET is required when EXPORT_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unsupported EXPORT_DRIVER %q: must be fs or s3", c.Export.Driver)
	}

	return nil
}

// dbConnString returns DB_CONN_STR, or builds it from individual vars (Docker friendly)
func dbConnString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getenv("DB_HOST", "localhost"),
		getenv("DB_PORT", "5432"),
		getenv("DB_USER", "postgres"),
		getenv("DB_PASSWORD", "postgres"),
		getenv("DB_NAME", "stockcal"),
	)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
