package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/goquad/internal/logging"
)

// Config is the goquad configuration file (goquad.yaml).
type Config struct {
	Subintervals    int          `yaml:"subintervals" json:"subintervals"`
	MaxSubintervals int          `yaml:"max_subintervals" json:"max_subintervals"`
	Precision       int          `yaml:"precision" json:"precision"`
	RequireExact    bool         `yaml:"require_exact" json:"require_exact"`
	LogLevel        string       `yaml:"log_level" json:"log_level"`
	Server          ServerConfig `yaml:"server" json:"server"`
	MCP             MCPConfig    `yaml:"mcp" json:"mcp"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

type MCPConfig struct {
	Transport string `yaml:"transport" json:"transport"`
	Port      int    `yaml:"port" json:"port"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Subintervals:    4,
		MaxSubintervals: 1_000_000,
		Precision:       6,
		RequireExact:    true,
		LogLevel:        "info",
		Server:          ServerConfig{Addr: ":8080"},
		MCP:             MCPConfig{Transport: "stdio", Port: 8081},
	}
}

// Load reads a YAML (or .json) file over the defaults. Keys missing from
// the file keep their default value. An empty path or a missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.merge(data, strings.ToLower(filepath.Ext(path)) == ".json"); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Parse decodes YAML content over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.merge(data, false); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// merge decodes into a generic map first so that loosely typed values
// ("8" for a number, "true" for a bool) are accepted.
func (c *Config) merge(data []byte, isJSON bool) error {
	raw := map[string]any{}
	if isJSON {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           c,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Subintervals < 2 || c.Subintervals%2 != 0 {
		return fmt.Errorf("subintervals must be a positive even number, got %d", c.Subintervals)
	}
	if c.MaxSubintervals < c.Subintervals {
		return fmt.Errorf("max_subintervals must be at least subintervals (%d), got %d", c.Subintervals, c.MaxSubintervals)
	}
	if c.Precision < 0 || c.Precision > 15 {
		return fmt.Errorf("precision must be between 0 and 15, got %d", c.Precision)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.MCP.Transport {
	case "stdio", "sse":
	default:
		return fmt.Errorf("mcp.transport must be stdio or sse, got %q", c.MCP.Transport)
	}
	if c.MCP.Port <= 0 || c.MCP.Port > 65535 {
		return fmt.Errorf("mcp.port out of range: %d", c.MCP.Port)
	}
	return nil
}
