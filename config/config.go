// Package config loads the service configuration from YAML or JSON files
// and applies environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete service configuration.
type Config struct {
	Server     ServerConfig     `json:"server" yaml:"server"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Market     MarketConfig     `json:"market" yaml:"market"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SimulationConfig tunes the live simulation engine.
type SimulationConfig struct {
	TickInterval  string  `json:"tick_interval" yaml:"tick_interval"` // e.g. "5s"
	HistoryWindow int     `json:"history_window" yaml:"history_window"`
	TradeCap      int     `json:"trade_cap" yaml:"trade_cap"`
	TradeKeep     int     `json:"trade_keep" yaml:"trade_keep"`
	FallbackPrice float64 `json:"fallback_price" yaml:"fallback_price"`
}

// ParseTickInterval converts the tick interval string to a Duration.
func (s SimulationConfig) ParseTickInterval() (time.Duration, error) {
	if s.TickInterval == "" {
		return 0, nil
	}
	return time.ParseDuration(s.TickInterval)
}

// MarketConfig selects and seeds the market data source.
type MarketConfig struct {
	Source string `json:"source" yaml:"source"` // "synthetic"
	Seed   int64  `json:"seed" yaml:"seed"`
}

// JournalConfig selects the trade journal backend.
type JournalConfig struct {
	Type         string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile   string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	BalancesFile string `json:"balances_file,omitempty" yaml:"balances_file,omitempty"`
	DBPath       string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoggingConfig configures the application logger.
type LoggingConfig struct {
	Level string `json:"level" yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 5000},
		Simulation: SimulationConfig{
			TickInterval:  "5s",
			HistoryWindow: 50,
			TradeCap:      100,
			TradeKeep:     50,
			FallbackPrice: 50_000_000,
		},
		Market:  MarketConfig{Source: "synthetic", Seed: time.Now().UnixNano()},
		Journal: JournalConfig{Type: "none"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadFromFile loads configuration from a file (YAML or JSON), starting
// from the defaults, then applies environment overrides.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CRYPTOSIM_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("CRYPTOSIM_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CRYPTOSIM_DB_PATH"); v != "" {
		cfg.Journal.DBPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate rejects configurations the engines cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if d, err := c.Simulation.ParseTickInterval(); err != nil {
		return fmt.Errorf("invalid tick interval %q: %w", c.Simulation.TickInterval, err)
	} else if d < 0 {
		return fmt.Errorf("tick interval must not be negative, got %s", d)
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.BalancesFile == "" {
			return fmt.Errorf("csv journal requires trades_file and balances_file")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("sqlite journal requires db_path")
		}
	default:
		return fmt.Errorf("unknown journal type %q", c.Journal.Type)
	}
	switch c.Market.Source {
	case "", "synthetic":
	default:
		return fmt.Errorf("unknown market source %q", c.Market.Source)
	}
	return nil
}
