package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBHost     string `long:"db-host" env:"DB_HOST" default:"localhost" description:"Database host"`
	DBPort     string `long:"db-port" env:"DB_PORT" default:"5432" description:"Database port"`
	DBUser     string `long:"db-user" env:"DB_USER" default:"veripost" description:"Database user"`
	DBPassword string `long:"db-password" env:"DB_PASSWORD" default:"veripost" description:"Database password (required)" required:"true"`
	DBName     string `long:"db-name" env:"DB_NAME" default:"veripost" description:"Database name"`

	// Object storage configuration
	S3Endpoint  string `long:"s3-endpoint" env:"MINIO_ENDPOINT" default:"localhost:9000" description:"MinIO/S3 endpoint"`
	S3AccessKey string `long:"s3-access-key" env:"MINIO_ACCESS_KEY" default:"veripost" description:"MinIO/S3 access key"`
	S3SecretKey string `long:"s3-secret-key" env:"MINIO_SECRET_KEY" default:"veripost123" description:"MinIO/S3 secret key"`
	S3Bucket    string `long:"s3-bucket" env:"MINIO_BUCKET" default:"veripost" description:"MinIO/S3 bucket for package files"`
	S3UseSSL    bool   `long:"s3-use-ssl" env:"MINIO_USE_SSL" description:"Use TLS for MinIO/S3 connections"`

	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for package ingestion"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"60" description:"Stalled-package sweep interval in seconds"`
	PlatformsFile     string `long:"platforms-file" env:"PLATFORMS_FILE" description:"Optional YAML file with extra platform detection markers"`

	// AI copilot configuration
	AnthropicAPIKey string `long:"anthropic-api-key" env:"ANTHROPIC_API_KEY" description:"Anthropic API key (copilot disabled when empty)"`
	AIModel         string `long:"ai-model" env:"AI_MODEL" default:"claude-sonnet-4-20250514" description:"Anthropic model for the copilot"`

	// Application metadata
	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBHost:            raw.DBHost,
		DBPort:            raw.DBPort,
		DBUser:            raw.DBUser,
		DBPassword:        raw.DBPassword,
		DBName:            raw.DBName,
		S3Endpoint:        raw.S3Endpoint,
		S3AccessKey:       raw.S3AccessKey,
		S3SecretKey:       raw.S3SecretKey,
		S3Bucket:          raw.S3Bucket,
		S3UseSSL:          raw.S3UseSSL,
		Port:              raw.Port,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		PlatformsFile:     raw.PlatformsFile,
		AnthropicAPIKey:   raw.AnthropicAPIKey,
		AIModel:           raw.AIModel,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Set replaces the global configuration; intended for tests.
func Set(c *Cfg) {
	globalCfg = c
}
