package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "LENSDL_"

// Config holds all configuration options for lensdl
type Config struct {
	// Site access
	Lensdump LensdumpConfig `yaml:"lensdump" json:"lensdump"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Retry behaviour for page and file requests
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Download archive
	Archive ArchiveConfig `yaml:"archive" json:"archive"`

	// Metadata sidecars
	Metadata MetadataConfig `yaml:"metadata" json:"metadata"`

	// Prometheus endpoint
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// LensdumpConfig holds site-specific configuration
type LensdumpConfig struct {
	Root      string        `yaml:"root" json:"root"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Strategy          string `yaml:"strategy" json:"strategy"`
	RequestsPerMinute int    `yaml:"requests_per_minute" json:"requests_per_minute"`
	BurstSize         int    `yaml:"burst_size" json:"burst_size"`
}

// RetryConfig holds retry configuration
type RetryConfig struct {
	Enabled      bool          `yaml:"enabled" json:"enabled"`
	MaxAttempts  int           `yaml:"max_attempts" json:"max_attempts"`
	BaseDelay    time.Duration `yaml:"base_delay" json:"base_delay"`
	MaxDelay     time.Duration `yaml:"max_delay" json:"max_delay"`
	Multiplier   float64       `yaml:"multiplier" json:"multiplier"`
	JitterFactor float64       `yaml:"jitter_factor" json:"jitter_factor"`
}

// OutputConfig holds output directory configuration.
// Empty templates fall back to the extractor defaults.
type OutputConfig struct {
	BaseDirectory     string `yaml:"base_directory" json:"base_directory"`
	DirectoryPattern  string `yaml:"directory_pattern" json:"directory_pattern"`
	FileNamePattern   string `yaml:"file_name_pattern" json:"file_name_pattern"`
	OverwriteExisting bool   `yaml:"overwrite_existing" json:"overwrite_existing"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	ConcurrentDownloads int           `yaml:"concurrent_downloads" json:"concurrent_downloads"`
	DownloadTimeout     time.Duration `yaml:"download_timeout" json:"download_timeout"`
	MaxDepth            int           `yaml:"max_depth" json:"max_depth"`
}

// ArchiveConfig holds the download archive location. An empty path disables it.
type ArchiveConfig struct {
	Path string `yaml:"path" json:"path"`
}

// MetadataConfig controls JSON sidecar files
type MetadataConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// MetricsConfig holds the metrics listen address. An empty address disables it.
type MetricsConfig struct {
	ListenAddress string `yaml:"listen_address" json:"listen_address"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Lensdump: LensdumpConfig{
			Root:      "https://lensdump.com",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:128.0) Gecko/20100101 Firefox/128.0",
			Timeout:   30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Strategy:          "token_bucket",
			RequestsPerMinute: 60,
			BurstSize:         5,
		},
		Retry: RetryConfig{
			Enabled:      true,
			MaxAttempts:  3,
			BaseDelay:    1 * time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
			JitterFactor: 0.1,
		},
		Output: OutputConfig{
			BaseDirectory: "./downloads",
		},
		Download: DownloadConfig{
			ConcurrentDownloads: 3,
			DownloadTimeout:     60 * time.Second,
			MaxDepth:            2,
		},
		Metadata: MetadataConfig{
			Enabled: false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from LENSDL_* environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	str := func(key string, dst *string) {
		if v := os.Getenv(envPrefix + key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v := os.Getenv(envPrefix + key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(key string, dst *bool) {
		if v := os.Getenv(envPrefix + key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = b
		}
	}

	str("ROOT", &c.Lensdump.Root)
	str("USER_AGENT", &c.Lensdump.UserAgent)
	num("REQUESTS_PER_MINUTE", &c.RateLimit.RequestsPerMinute)
	str("OUTPUT_DIR", &c.Output.BaseDirectory)
	boolean("OVERWRITE", &c.Output.OverwriteExisting)
	num("CONCURRENT_DOWNLOADS", &c.Download.ConcurrentDownloads)
	str("ARCHIVE", &c.Archive.Path)
	boolean("METADATA", &c.Metadata.Enabled)
	str("METRICS_ADDR", &c.Metrics.ListenAddress)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FILE", &c.Logging.File)

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// DefaultPath is where `config init` writes a fresh file
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "lensdl", "config.yaml")
}

func findConfigFile() string {
	locations := []string{
		".lensdl.yaml",
		".lensdl.yml",
		DefaultPath(),
		filepath.Join(os.Getenv("HOME"), ".lensdl.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.Lensdump.Root); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid site root %q", c.Lensdump.Root))
	}
	if c.Lensdump.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.RateLimit.BurstSize <= 0 {
		errs = append(errs, errors.New("burst size must be positive"))
	}
	switch c.RateLimit.Strategy {
	case "", "token_bucket", "sliding_window":
	default:
		errs = append(errs, fmt.Errorf("unknown rate limit strategy %q", c.RateLimit.Strategy))
	}

	if c.Retry.Enabled {
		if c.Retry.MaxAttempts <= 0 {
			errs = append(errs, errors.New("retry attempts must be positive"))
		}
		if c.Retry.Multiplier < 1 {
			errs = append(errs, errors.New("retry multiplier must be at least 1"))
		}
		if c.Retry.JitterFactor < 0 || c.Retry.JitterFactor > 1 {
			errs = append(errs, errors.New("retry jitter must be between 0 and 1"))
		}
	}

	if c.Download.ConcurrentDownloads <= 0 {
		errs = append(errs, errors.New("concurrent downloads must be positive"))
	}
	if c.Download.ConcurrentDownloads > 10 {
		errs = append(errs, errors.New("concurrent downloads should not exceed 10"))
	}
	if c.Download.DownloadTimeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}
	if c.Download.MaxDepth < 0 {
		errs = append(errs, errors.New("max depth cannot be negative"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Zero values are ignored so unset flags never override other sources.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Output.BaseDirectory = v
	}
	if v, ok := flags["directory"].(string); ok && v != "" {
		c.Output.DirectoryPattern = v
	}
	if v, ok := flags["filename"].(string); ok && v != "" {
		c.Output.FileNamePattern = v
	}
	if v, ok := flags["overwrite"].(bool); ok && v {
		c.Output.OverwriteExisting = true
	}
	if v, ok := flags["concurrent"].(int); ok && v > 0 {
		c.Download.ConcurrentDownloads = v
	}
	if v, ok := flags["archive"].(string); ok && v != "" {
		c.Archive.Path = v
	}
	if v, ok := flags["write-metadata"].(bool); ok && v {
		c.Metadata.Enabled = true
	}
	if v, ok := flags["metrics-addr"].(string); ok && v != "" {
		c.Metrics.ListenAddress = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// godotenv never overrides variables that are already set
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".lensdl.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
