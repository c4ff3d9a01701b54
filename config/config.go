// Package config loads the YAML configuration for the toolscope server.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/toolscope/remote"
)

// Defaults applied when the file leaves values unset.
const (
	DefaultTimeout      = "30s"
	DefaultMaxToolCalls = 100
)

// Config is the top-level server configuration.
type Config struct {
	// Listen is the HTTP listen address for the streamable-HTTP transport.
	// Empty means serve MCP over stdio.
	Listen string `yaml:"listen,omitempty"`

	// DefaultTimeout is the wall-clock budget applied to executions that
	// do not specify one, in time.ParseDuration syntax ("30s", "2m").
	DefaultTimeout string `yaml:"default_timeout,omitempty"`

	// MaxToolCalls caps proxy invocations per execution.
	MaxToolCalls int `yaml:"max_tool_calls,omitempty"`

	// Servers lists the external MCP tool servers to connect at startup.
	Servers []remote.ServerConfig `yaml:"servers"`
}

// Load reads the YAML configuration file at path and returns a validated
// Config. It is a convenience wrapper around LoadFromReader.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	cfg.applyDefaults()
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values. It returns a
// joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.DefaultTimeout != "" {
		d, err := time.ParseDuration(cfg.DefaultTimeout)
		if err != nil {
			errs = append(errs, fmt.Errorf("default_timeout %q: %w", cfg.DefaultTimeout, err))
		} else if d <= 0 {
			errs = append(errs, fmt.Errorf("default_timeout %q must be positive", cfg.DefaultTimeout))
		}
	}

	seen := make(map[string]int, len(cfg.Servers))
	for i, srv := range cfg.Servers {
		prefix := fmt.Sprintf("servers[%d]", i)
		if prev, ok := seen[srv.Name]; ok && srv.Name != "" {
			errs = append(errs, fmt.Errorf("%s.name %q is a duplicate of servers[%d]", prefix, srv.Name, prev))
		}
		seen[srv.Name] = i
		if err := srv.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
		}
	}

	return errors.Join(errs...)
}

// applyDefaults fills unset optional values.
func (c *Config) applyDefaults() {
	if c.DefaultTimeout == "" {
		c.DefaultTimeout = DefaultTimeout
	}
	if c.MaxToolCalls == 0 {
		c.MaxToolCalls = DefaultMaxToolCalls
	}
}

// Timeout returns the parsed default execution timeout. Call only on a
// validated config; an unparsable value falls back to the package default.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.DefaultTimeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultTimeout)
	}
	return d
}
