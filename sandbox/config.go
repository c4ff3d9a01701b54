package sandbox

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonwraymond/toolscope/docs"
	"github.com/jonwraymond/toolscope/proxy"
	"github.com/jonwraymond/toolscope/registry"
	"github.com/jonwraymond/toolscope/search"
)

// Default limits applied when the configuration leaves them unset.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxToolCalls = 100
)

// Config holds the configuration for an executor.
type Config struct {
	// Registry is the immutable tool server snapshot.
	// Required.
	Registry *registry.Registry

	// Docs renders tool documentation.
	// Required.
	Docs *docs.Loader

	// Search ranks tools against free-text queries.
	// Required.
	Search *search.Searcher

	// Proxies creates callable tool stubs.
	// Required.
	Proxies *proxy.Factory

	// Engine is the pluggable interpreter.
	// Required.
	Engine Engine

	// DefaultTimeout is the wall-clock budget applied when ExecuteParams
	// does not specify one. If zero, DefaultTimeout (30s) applies.
	DefaultTimeout time.Duration

	// MaxToolCalls caps proxy invocations per execution. If zero,
	// DefaultMaxToolCalls applies; negative means unlimited.
	MaxToolCalls int

	// Logger is an optional logger for observability.
	Logger Logger
}

// Validate checks that all required fields are set.
// Returns ErrConfiguration if any required field is missing.
func (c *Config) Validate() error {
	var missing []string

	if c.Registry == nil {
		missing = append(missing, "Registry")
	}
	if c.Docs == nil {
		missing = append(missing, "Docs")
	}
	if c.Search == nil {
		missing = append(missing, "Search")
	}
	if c.Proxies == nil {
		missing = append(missing, "Proxies")
	}
	if c.Engine == nil {
		missing = append(missing, "Engine")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s",
			ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

// applyDefaults sets default values for optional fields.
func (c *Config) applyDefaults() {
	if c.DefaultTimeout == 0 {
		c.DefaultTimeout = DefaultTimeout
	}
	if c.MaxToolCalls == 0 {
		c.MaxToolCalls = DefaultMaxToolCalls
	}
	if c.MaxToolCalls < 0 {
		c.MaxToolCalls = 0
	}
}
