package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	S3       S3Config
	Log      LogConfig
	Fetch    FetchConfig
	Pipeline PipelineConfig
	Email    EmailConfig
}

// ServerConfig holds HTTP server settings for the report API.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings for the warehouse.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds settings for publishing run artifacts.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	KeyPrefix     string `mapstructure:"key_prefix"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// FetchConfig holds report download settings.
type FetchConfig struct {
	ListingURL string `mapstructure:"listing_url"`
	OutputDir  string `mapstructure:"output_dir"`
}

// PipelineConfig holds extraction run settings. Normalization constants
// are not here on purpose; they are fixed properties of the report format.
type PipelineConfig struct {
	InputDir    string `mapstructure:"input_dir"`
	DatasetPath string `mapstructure:"dataset_path"`
	ReportPath  string `mapstructure:"report_path"`
	Concurrency int    `mapstructure:"concurrency"`
	LoadDB      bool   `mapstructure:"load_db"`
	Publish     bool   `mapstructure:"publish"`
	Notify      bool   `mapstructure:"notify"`
}

// EmailConfig holds run-notification delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	ToAddress   string `mapstructure:"to_address"`
}

// Load reads configuration from environment variables with the SPARCS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SPARCS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "sparcs")
	v.SetDefault("db.password", "sparcs_secret")
	v.SetDefault("db.name", "sparcs_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "sparcs-compliance")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.key_prefix", "runs")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Fetch defaults
	v.SetDefault("fetch.listing_url", "https://www.health.ny.gov/statistics/sparcs/reports/compliance/pfi_facilities.htm")
	v.SetDefault("fetch.output_dir", "pdfs")

	// Pipeline defaults
	v.SetDefault("pipeline.input_dir", "pdfs")
	v.SetDefault("pipeline.dataset_path", "output/SPARCS_Compliance_Report.csv")
	v.SetDefault("pipeline.report_path", "output/processing_report.txt")
	v.SetDefault("pipeline.concurrency", 4)
	v.SetDefault("pipeline.load_db", false)
	v.SetDefault("pipeline.publish", false)
	v.SetDefault("pipeline.notify", false)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@sparcs-etl.local")
	v.SetDefault("email.from_name", "SPARCS ETL")
	v.SetDefault("email.to_address", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":           "SPARCS_SERVER_PORT",
		"server.read_timeout":   "SPARCS_SERVER_READ_TIMEOUT",
		"server.write_timeout":  "SPARCS_SERVER_WRITE_TIMEOUT",
		"server.environment":    "SPARCS_SERVER_ENVIRONMENT",
		"db.host":               "SPARCS_DB_HOST",
		"db.port":               "SPARCS_DB_PORT",
		"db.user":               "SPARCS_DB_USER",
		"db.password":           "SPARCS_DB_PASSWORD",
		"db.name":               "SPARCS_DB_NAME",
		"db.sslmode":            "SPARCS_DB_SSLMODE",
		"db.max_open":           "SPARCS_DB_MAX_OPEN",
		"db.max_idle":           "SPARCS_DB_MAX_IDLE",
		"s3.region":             "SPARCS_S3_REGION",
		"s3.bucket":             "SPARCS_S3_BUCKET",
		"s3.endpoint":           "SPARCS_S3_ENDPOINT",
		"s3.access_key":         "SPARCS_S3_ACCESS_KEY",
		"s3.secret_key":         "SPARCS_S3_SECRET_KEY",
		"s3.key_prefix":         "SPARCS_S3_KEY_PREFIX",
		"s3.presign_expiry":     "SPARCS_S3_PRESIGN_EXPIRY",
		"log.level":             "SPARCS_LOG_LEVEL",
		"log.format":            "SPARCS_LOG_FORMAT",
		"fetch.listing_url":     "SPARCS_FETCH_LISTING_URL",
		"fetch.output_dir":      "SPARCS_FETCH_OUTPUT_DIR",
		"pipeline.input_dir":    "SPARCS_PIPELINE_INPUT_DIR",
		"pipeline.dataset_path": "SPARCS_PIPELINE_DATASET_PATH",
		"pipeline.report_path":  "SPARCS_PIPELINE_REPORT_PATH",
		"pipeline.concurrency":  "SPARCS_PIPELINE_CONCURRENCY",
		"pipeline.load_db":      "SPARCS_PIPELINE_LOAD_DB",
		"pipeline.publish":      "SPARCS_PIPELINE_PUBLISH",
		"pipeline.notify":       "SPARCS_PIPELINE_NOTIFY",
		"email.provider":        "SPARCS_EMAIL_PROVIDER",
		"email.region":          "SPARCS_EMAIL_REGION",
		"email.from_address":    "SPARCS_EMAIL_FROM_ADDRESS",
		"email.from_name":       "SPARCS_EMAIL_FROM_NAME",
		"email.to_address":      "SPARCS_EMAIL_TO_ADDRESS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if SPARCS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SPARCS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		KeyPrefix:     v.GetString("s3.key_prefix"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Fetch = FetchConfig{
		ListingURL: v.GetString("fetch.listing_url"),
		OutputDir:  v.GetString("fetch.output_dir"),
	}
	cfg.Pipeline = PipelineConfig{
		InputDir:    v.GetString("pipeline.input_dir"),
		DatasetPath: v.GetString("pipeline.dataset_path"),
		ReportPath:  v.GetString("pipeline.report_path"),
		Concurrency: v.GetInt("pipeline.concurrency"),
		LoadDB:      v.GetBool("pipeline.load_db"),
		Publish:     v.GetBool("pipeline.publish"),
		Notify:      v.GetBool("pipeline.notify"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		ToAddress:   v.GetString("email.to_address"),
	}

	return cfg, nil
}
