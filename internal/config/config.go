package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "github.com/Prabalranjan/Power-BI-Data-Download/internal/errors"
	"github.com/Prabalranjan/Power-BI-Data-Download/internal/query"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Database  DatabaseConfig  `yaml:"database" envconfig:"DB"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"gte=0"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" validate:"gt=0"`
}

// DatabaseConfig contains MySQL connection settings. Fields without an
// envconfig tag resolve to DB_<FIELD> only.
type DatabaseConfig struct {
	Host            string        `yaml:"host" validate:"required"`
	Port            int           `yaml:"port" validate:"min=1,max=65535"`
	User            string        `yaml:"user" validate:"required"`
	Pass            string        `yaml:"pass"`
	Name            string        `yaml:"name" validate:"required"`
	MaxOpenConns    int           `yaml:"max_open_conns" split_words:"true" validate:"gte=0"`
	MaxIdleConns    int           `yaml:"max_idle_conns" split_words:"true" validate:"gte=0"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" split_words:"true" validate:"gte=0"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout" split_words:"true" validate:"gt=0"`
	QueryTimeout    time.Duration `yaml:"query_timeout" split_words:"true" validate:"gte=0"`
	PingRetries     int           `yaml:"ping_retries" split_words:"true" validate:"gte=0"`
	PingInterval    time.Duration `yaml:"ping_interval" split_words:"true" validate:"gte=0"`
}

// Addr returns host:port
func (d DatabaseConfig) Addr() string {
	return fmt.Sprintf("%s:%d", d.Host, d.Port)
}

// ExportConfig locates the snapshot tables and shapes downloads
type ExportConfig struct {
	CoreSchema string `yaml:"core_schema" envconfig:"CORE_SCHEMA" validate:"required,sqlident"`
	RefSchema  string `yaml:"ref_schema" envconfig:"REF_SCHEMA" validate:"required,sqlident"`
	Session    string `yaml:"session" envconfig:"SESSION" validate:"required,sqlident"`
	Filename   string `yaml:"filename" envconfig:"FILENAME" validate:"required,sqlident"`
	CSVBOM     bool   `yaml:"csv_bom" envconfig:"CSV_BOM"`
	SheetName  string `yaml:"sheet_name" envconfig:"SHEET_NAME" validate:"required,max=31"`
}

// Tables converts the export settings into a query table layout
func (e ExportConfig) Tables() query.Tables {
	return query.Tables{
		CoreSchema: e.CoreSchema,
		RefSchema:  e.RefSchema,
		Session:    e.Session,
	}
}

// SecurityConfig contains security-related configuration. The API key
// fields also accept the unprefixed API_KEY_REQUIRED and EXPORT_API_KEY
// variables.
type SecurityConfig struct {
	APIKeyRequired bool            `yaml:"api_key_required" envconfig:"API_KEY_REQUIRED"`
	APIKey         string          `yaml:"api_key" envconfig:"EXPORT_API_KEY"`
	APIKeyHash     string          `yaml:"api_key_hash" envconfig:"API_KEY_HASH"`
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" validate:"min=1"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gt=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	MetricsEnabled bool    `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
	TracingEnabled bool    `yaml:"tracing_enabled" envconfig:"TRACING_ENABLED"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
}

// Load builds the configuration from defaults, then an optional YAML file,
// then environment variables, and validates the result.
func Load() (*Config, error) {
	cfg := Default()

	if configFile := getConfigFilePath(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to load config from file %s", configFile), err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("config validation failed", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg. Keys absent from the file keep
// their current value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

var validate = mustValidator()

func newValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("sqlident", func(fl validator.FieldLevel) bool {
		return query.IsIdentifier(fl.Field().String())
	})
	if err != nil {
		return nil, fmt.Errorf("register sqlident validation: %w", err)
	}
	return v, nil
}

func mustValidator() *validator.Validate {
	v, err := newValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks field constraints and cross-field rules
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}

	if c.Security.APIKeyRequired && c.Security.APIKey == "" && c.Security.APIKeyHash == "" {
		return fmt.Errorf("api key is required but neither SECURITY_EXPORT_API_KEY nor SECURITY_API_KEY_HASH is set")
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging output %q requires a file path", c.Logging.Output)
	}

	return nil
}

// getConfigFilePath returns the path to the config file, or "" if none
func getConfigFilePath() string {
	if explicit := os.Getenv("CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    2 * time.Minute,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  90 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            3306,
			User:            "export",
			Name:            "core_db",
			MaxOpenConns:    DefaultMaxOpenConns,
			MaxIdleConns:    DefaultMaxIdleConns,
			ConnMaxLifetime: DefaultConnMaxLifetime,
			ConnectTimeout:  10 * time.Second,
			QueryTimeout:    DefaultQueryTimeout,
			PingRetries:     DefaultPingRetries,
			PingInterval:    2 * time.Second,
		},
		Export: ExportConfig{
			CoreSchema: "core_db",
			RefSchema:  "ref_db",
			Session:    "2025_2026",
			Filename:   DefaultExportFilename,
			SheetName:  "export",
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Telemetry: TelemetryConfig{
			MetricsEnabled: true,
			TracingEnabled: false,
			TraceExporter:  "stdout",
			SampleRatio:    1.0,
			Environment:    "development",
		},
	}
}
