// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fuzzy-rank/core/fuzzy"
	"fuzzy-rank/internal/errors"
	"fuzzy-rank/internal/logging"
)

// Environment variables that override file settings
const (
	EnvDatabaseURL = "FUZZYRANK_DATABASE_URL"
	EnvAddr        = "FUZZYRANK_ADDR"
	EnvLogLevel    = "FUZZYRANK_LOG_LEVEL"
	EnvWorkers     = "FUZZYRANK_WORKERS"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Engine contains evaluation settings
	Engine EngineConfig `json:"engine"`

	// Input contains spreadsheet reading settings
	Input InputConfig `json:"input"`

	// Output contains output settings
	Output OutputConfig `json:"output"`

	// Storage contains ranking persistence settings
	Storage StorageConfig `json:"storage"`

	// Server contains HTTP API settings
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// EngineConfig contains evaluation settings
type EngineConfig struct {
	// Workers bounds concurrent record evaluation, 0 means one per CPU
	Workers int `json:"workers"`

	// TopN truncates rankings, 0 keeps every record
	TopN int `json:"top_n"`

	// Step is the output sampling step; 1 reproduces the reference scores
	Step float64 `json:"step"`
}

// InputConfig contains spreadsheet reading settings
type InputConfig struct {
	// Sheet is the xlsx sheet to read, empty for the first one
	Sheet string `json:"sheet,omitempty"`

	// IDColumn is the header of the identifier column
	IDColumn string `json:"id_column"`

	// ServiceColumn is the header of the service quality column
	ServiceColumn string `json:"service_column"`

	// PriceColumn is the header of the price column
	PriceColumn string `json:"price_column"`
}

// OutputConfig contains output settings
type OutputConfig struct {
	// Format is the terminal format (table, list, json)
	Format string `json:"format"`

	// Path is the default ranking file written by the rank command
	Path string `json:"path"`

	// ShowTrace includes membership degrees in output
	ShowTrace bool `json:"show_trace"`
}

// StorageConfig contains ranking persistence settings
type StorageConfig struct {
	// Backend is none, memory, file, sqlite or postgres
	Backend string `json:"backend"`

	// Path is the directory (file) or database file (sqlite)
	Path string `json:"path,omitempty"`

	// DSN is the postgres connection string
	DSN string `json:"dsn,omitempty"`
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`

	// RateLimit is requests per second per client, 0 disables limiting
	RateLimit float64 `json:"rate_limit"`

	// Burst is the rate limiter burst size
	Burst int `json:"burst"`

	// CacheSize is the number of memoized evaluations
	CacheSize int `json:"cache_size"`

	// MaxRecords bounds the records accepted by one rank request
	MaxRecords int `json:"max_records"`

	// AllowOrigins lists CORS origins
	AllowOrigins []string `json:"allow_origins,omitempty"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".fuzzy-rank")

	return &Config{
		Version: "1.0",
		Engine: EngineConfig{
			Workers: 0,
			TopN:    5,
			Step:    fuzzy.DefaultDomain.Step,
		},
		Input: InputConfig{
			IDColumn:      "id Pelanggan",
			ServiceColumn: "Pelayanan",
			PriceColumn:   "harga",
		},
		Output: OutputConfig{
			Format: "table",
			Path:   "peringkat.xlsx",
		},
		Storage: StorageConfig{
			Backend: "none",
			Path:    filepath.Join(dataDir, "rankings.db"),
		},
		Server: ServerConfig{
			Addr:       ":8080",
			RateLimit:  20,
			Burst:      40,
			CacheSize:  4096,
			MaxRecords: 100000,
			AllowOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
			},
		},
		Logging: logging.DefaultConfig(),
	}
}

// Domain returns the output domain the engine should sample
func (c *Config) Domain() fuzzy.Domain {
	d := fuzzy.DefaultDomain
	if c.Engine.Step > 0 {
		d.Step = c.Engine.Step
	}
	return d
}

// Validate checks settings that would otherwise fail late
func (c *Config) Validate() error {
	if c.Engine.Workers < 0 {
		return errors.Newf(errors.TypeConfig, "engine.workers must be >= 0, got %d", c.Engine.Workers)
	}
	if c.Engine.TopN < 0 {
		return errors.Newf(errors.TypeConfig, "engine.top_n must be >= 0, got %d", c.Engine.TopN)
	}
	if c.Engine.Step < 0 || c.Engine.Step > 100 {
		return errors.Newf(errors.TypeConfig, "engine.step must be in (0,100], got %v", c.Engine.Step)
	}
	switch c.Output.Format {
	case "table", "list", "json":
	default:
		return errors.Newf(errors.TypeConfig, "unknown output.format %q", c.Output.Format)
	}
	switch c.Storage.Backend {
	case "", "none", "memory", "file", "sqlite":
	case "postgres":
		if c.Storage.DSN == "" {
			return errors.New(errors.TypeConfig, "storage.dsn is required for the postgres backend")
		}
	default:
		return errors.Newf(errors.TypeConfig, "unknown storage.backend %q", c.Storage.Backend)
	}
	return nil
}

// Load loads configuration from a JSON or HCL file. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	config := Default()

	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return config, nil
		}
		if err := loadHCL(path, config); err != nil {
			return nil, err
		}
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, errors.Config("failed to read config", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Config("failed to parse config "+path, err)
	}

	return config, nil
}

// ApplyEnv overrides settings from the environment
func (c *Config) ApplyEnv() {
	if dsn := os.Getenv(EnvDatabaseURL); dsn != "" {
		c.Storage.DSN = dsn
		if c.Storage.Backend == "" || c.Storage.Backend == "none" {
			c.Storage.Backend = "postgres"
		}
	}
	if addr := os.Getenv(EnvAddr); addr != "" {
		c.Server.Addr = addr
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
	if w := os.Getenv(EnvWorkers); w != "" {
		if n, err := strconv.Atoi(w); err == nil {
			c.Engine.Workers = n
		}
	}
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
