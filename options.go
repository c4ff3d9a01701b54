package toolscope

import (
	"errors"
	"time"

	"github.com/jonwraymond/toolscope/registry"
	"github.com/jonwraymond/toolscope/sandbox"
)

// ErrNoProviders is returned when Options contains no tool servers.
var ErrNoProviders = errors.New("toolscope: at least one provider is required")

// Options configures a Toolscope instance.
type Options struct {
	// Providers are the tool servers to register, in order. Registration
	// order is the deterministic tie-break order for search results.
	// Required.
	Providers []registry.Provider

	// Engine is the sandbox interpreter.
	// Default: sandbox.NewJSEngine().
	Engine sandbox.Engine

	// DefaultTimeout is the wall-clock budget applied when an execution
	// does not specify one. Default: sandbox.DefaultTimeout.
	DefaultTimeout time.Duration

	// MaxToolCalls caps proxy invocations per execution.
	// Default: sandbox.DefaultMaxToolCalls; negative means unlimited.
	MaxToolCalls int

	// Logger is an optional logger for observability.
	Logger sandbox.Logger
}

// validate checks that required fields are set.
func (o *Options) validate() error {
	if len(o.Providers) == 0 {
		return ErrNoProviders
	}
	return nil
}

// applyDefaults sets default values for unset optional fields.
func (o *Options) applyDefaults() {
	if o.Engine == nil {
		o.Engine = sandbox.NewJSEngine()
	}
}
