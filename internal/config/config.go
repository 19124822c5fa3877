package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Finance   FinanceConfig   `yaml:"finance" envconfig:"FINANCE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration for the dashboard
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// DataConfig locates the input CSV and the output directories
type DataConfig struct {
	// Inputs are candidate CSV paths tried in order. Empty means the
	// built-in candidate list.
	Inputs     []string `yaml:"inputs" envconfig:"INPUTS"`
	DataDir    string   `yaml:"data_dir" envconfig:"DATA_DIR"`
	ReportsDir string   `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	AssetsDir  string   `yaml:"assets_dir" envconfig:"ASSETS_DIR"`
}

// AnalysisConfig controls classification and hypothesis testing
type AnalysisConfig struct {
	BuyerPolicy  string  `yaml:"buyer_policy" envconfig:"BUYER_POLICY"`
	Alpha        float64 `yaml:"alpha" envconfig:"ALPHA"`
	EarlyMinDays int     `yaml:"early_min_days" envconfig:"EARLY_MIN_DAYS"`
	LateMaxDays  int     `yaml:"late_max_days" envconfig:"LATE_MAX_DAYS"`
}

// FinanceConfig overrides the initiative parameters. Zero keeps the
// built-in value.
type FinanceConfig struct {
	DiscountFloorRatio float64 `yaml:"discount_floor_ratio" envconfig:"DISCOUNT_FLOOR_RATIO"`
	RetentionRate      float64 `yaml:"retention_rate" envconfig:"RETENTION_RATE"`
	ConversionRate     float64 `yaml:"conversion_rate" envconfig:"CONVERSION_RATE"`
	AverageAttendance  float64 `yaml:"average_attendance" envconfig:"AVERAGE_ATTENDANCE"`
	EligibleFraction   float64 `yaml:"eligible_fraction" envconfig:"ELIGIBLE_FRACTION"`
	TakeRate           float64 `yaml:"take_rate" envconfig:"TAKE_RATE"`
	UpsellPrice        float64 `yaml:"upsell_price" envconfig:"UPSELL_PRICE"`
	GamesPerSeason     int     `yaml:"games_per_season" envconfig:"GAMES_PER_SEASON"`
}

// TelemetryConfig selects OpenTelemetry exporters
type TelemetryConfig struct {
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
}

// Load builds the configuration from defaults, then the optional YAML file,
// then STRYKERS_* environment variables (highest priority).
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg; keys absent from the file keep
// their current value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return fmt.Errorf("analysis alpha must be in (0,1), got %v", c.Analysis.Alpha)
	}

	switch strings.ToLower(c.Analysis.BuyerPolicy) {
	case "dashboard", "a", "report", "b":
	default:
		return fmt.Errorf("unknown buyer policy %q", c.Analysis.BuyerPolicy)
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            DefaultPort,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			RequestTimeout:  DefaultRequestTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimitRPS,
				Burst:   DefaultRateLimitBurst,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Data: DataConfig{
			DataDir:    DefaultDataDir,
			ReportsDir: DefaultReportsDir,
			AssetsDir:  DefaultAssetsDir,
		},
		Analysis: AnalysisConfig{
			BuyerPolicy:  "dashboard",
			Alpha:        0.05,
			EarlyMinDays: 30,
			LateMaxDays:  3,
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
	}
}
