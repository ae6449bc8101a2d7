package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the calorie calculator configuration.
type Config struct {
	Env     string        `yaml:"env"`
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	Tagger  TaggerConfig  `yaml:"tagger"`
	Extract ExtractConfig `yaml:"extract"`
	Suggest SuggestConfig `yaml:"suggest"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds HTTP transport settings.
type ServerConfig struct {
	Transport       string `yaml:"transport"`
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	ShutdownSec     int    `yaml:"shutdown_timeout_sec"`
}

// CatalogConfig lists the nutrient tables, concatenated in order.
type CatalogConfig struct {
	Sources []SourceConfig `yaml:"sources"`
}

type SourceConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"` // csv, sqlite (default: from extension)
	Table  string `yaml:"table"`  // sqlite only (default: foods)
	Origin string `yaml:"origin"`
}

// TaggerConfig selects the part-of-speech tagger.
type TaggerConfig struct {
	Driver     string `yaml:"driver"` // prose, remote (default: prose)
	ProxyURL   string `yaml:"proxy_url"`
	APIKey     string `yaml:"api_key"`
	Service    string `yaml:"service"`
	Tool       string `yaml:"tool"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

type ExtractConfig struct {
	Mode string `yaml:"mode"` // strict, compound (default: compound)
}

type SuggestConfig struct {
	Max    int     `yaml:"max"`
	Cutoff float64 `yaml:"cutoff"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file. ${VAR} and ${VAR:-default} are
// expanded before parsing.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies defaults and validates it.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Env == "" {
		c.Env = GetEnv()
	}
	if c.Server.Transport == "" {
		c.Server.Transport = "http"
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8011
	}
	if c.Server.ReadTimeoutSec <= 0 {
		c.Server.ReadTimeoutSec = 10
	}
	if c.Server.WriteTimeoutSec <= 0 {
		c.Server.WriteTimeoutSec = 10
	}
	if c.Server.ShutdownSec <= 0 {
		c.Server.ShutdownSec = 10
	}
	if c.Tagger.Driver == "" {
		c.Tagger.Driver = "prose"
	}
	if c.Tagger.TimeoutSec <= 0 {
		c.Tagger.TimeoutSec = 10
	}
	if c.Extract.Mode == "" {
		c.Extract.Mode = "compound"
	}
	if c.Suggest.Max <= 0 {
		c.Suggest.Max = 3
	}
	if c.Suggest.Cutoff <= 0 {
		c.Suggest.Cutoff = 0.6
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Server.Transport != "http" {
		return fmt.Errorf("server.transport must be \"http\", got %q", c.Server.Transport)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if len(c.Catalog.Sources) == 0 {
		return fmt.Errorf("catalog.sources is required")
	}
	for i, s := range c.Catalog.Sources {
		if strings.TrimSpace(s.Path) == "" {
			return fmt.Errorf("catalog.sources[%d].path is required", i)
		}
		switch s.Format {
		case "", "csv", "sqlite":
			// ok
		default:
			return fmt.Errorf("catalog.sources[%d].format must be \"csv\" or \"sqlite\", got %q", i, s.Format)
		}
	}
	switch c.Tagger.Driver {
	case "prose", "remote":
		// ok
	default:
		return fmt.Errorf("tagger.driver must be \"prose\" or \"remote\", got %q", c.Tagger.Driver)
	}
	switch c.Extract.Mode {
	case "strict", "compound":
		// ok
	default:
		return fmt.Errorf("extract.mode must be \"strict\" or \"compound\", got %q", c.Extract.Mode)
	}
	if c.Suggest.Cutoff > 1 {
		return fmt.Errorf("suggest.cutoff must be in (0, 1], got %g", c.Suggest.Cutoff)
	}
	return nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
