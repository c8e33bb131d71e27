// Package config handles configuration loading from YAML files, environment
// variables and command-line flags.
// Configuration precedence: CLI flags > environment variables > config file > defaults.
package config

import (
	"fmt"
	"math"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a wrapper around time.Duration that supports YAML unmarshaling
// from human-readable strings like "5s", "1m".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := time.ParseDuration(value.Value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value.Value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("unsupported duration format: %v", value.Kind)
	}
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Adapters selectable for the /metrics endpoint.
const (
	// AdapterText renders the document directly, in fixed field order.
	AdapterText = "text"
	// AdapterRegistry serves the gauges through promhttp and a registry.
	AdapterRegistry = "registry"
)

// DefaultPort is the listen port registered for this exporter.
const DefaultPort uint16 = 9102

// Config holds all exporter configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Command CommandConfig `yaml:"command"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	ListenAddress     string   `yaml:"listen_address"`
	Port              uint16   `yaml:"port"`
	Adapter           string   `yaml:"adapter"`
	ReadHeaderTimeout Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   Duration `yaml:"shutdown_timeout"`
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.ListenAddress, strconv.Itoa(int(s.Port)))
}

// CommandConfig describes the status program invocation.
type CommandConfig struct {
	Path string   `yaml:"path"`
	Args []string `yaml:"args"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddress:     "0.0.0.0",
			Port:              DefaultPort,
			Adapter:           AdapterText,
			ReadHeaderTimeout: Duration{10 * time.Second},
			ShutdownTimeout:   Duration{5 * time.Second},
		},
		Command: CommandConfig{
			Path: "pwrstat",
			Args: []string{"-status"},
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// CLIOverrides holds values from command-line flags.
// Zero values are treated as "not set" and skipped.
type CLIOverrides struct {
	Port     uint
	LogLevel string
}

// Locate searches standard config file paths and returns the first one found.
// Returns empty string if no config file exists.
func Locate() string {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadLayered loads configuration with the full precedence chain:
// CLI flags > env vars > YAML file > defaults.
//
// An optional configPath argument controls file discovery:
//   - omitted        → auto-discover via Locate()
//   - explicit value → use that path ("" means no file)
//
// A missing file is not an error; an unreadable or malformed one is.
func LoadLayered(cli CLIOverrides, configPath ...string) (*Config, error) {
	cfg := DefaultConfig()

	var filePath string
	if len(configPath) > 0 {
		filePath = configPath[0]
	} else {
		filePath = Locate()
	}
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", filePath, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if cli.Port != 0 {
		if cli.Port > math.MaxUint16 {
			return nil, fmt.Errorf("flag -port: invalid port %d", cli.Port)
		}
		cfg.Server.Port = uint16(cli.Port)
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}

	return cfg, nil
}

// WriteConfig serializes the config to a YAML file at the given path.
// Creates parent directories if needed.
func WriteConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0640)
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("PWRSTAT_EXPORTER_PORT"); v != "" {
		port, err := parsePort(v)
		if err != nil {
			return fmt.Errorf("PWRSTAT_EXPORTER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("PWRSTAT_EXPORTER_LISTEN_ADDRESS"); v != "" {
		cfg.Server.ListenAddress = v
	}
	if v := os.Getenv("PWRSTAT_EXPORTER_COMMAND"); v != "" {
		cfg.Command.Path = v
	}
	if v := os.Getenv("PWRSTAT_EXPORTER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}

func parsePort(s string) (uint16, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: %w", s, err)
	}
	return uint16(n), nil
}

// Validate checks that the configuration can be used to start the exporter.
func (c *Config) Validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}
	switch c.Server.Adapter {
	case AdapterText, AdapterRegistry:
	default:
		return fmt.Errorf("unknown server adapter %q (expected %q or %q)",
			c.Server.Adapter, AdapterText, AdapterRegistry)
	}
	if c.Command.Path == "" {
		return fmt.Errorf("command path is required")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
}
