// Toolscope: progressive-disclosure tool execution MCP server
//
// Exposes a single execute_code operation over MCP. Submitted snippets
// discover registered tool servers, load individual tool schemas on demand,
// and invoke tools through lazily resolved proxies, so the protocol surface
// and its context cost stay constant no matter how many tools are behind it.
//
// Usage:
//
//	toolscope serve [-config toolscope.yaml]   # stdio transport by default
//	toolscope version
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonwraymond/toolscope"
	"github.com/jonwraymond/toolscope/config"
	"github.com/jonwraymond/toolscope/local/echo"
	"github.com/jonwraymond/toolscope/registry"
	"github.com/jonwraymond/toolscope/remote"
	"github.com/jonwraymond/toolscope/serve"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
	case "--version", "-v", "version":
		fmt.Printf("toolscope v%s\n", serve.Version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to YAML configuration")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// MCP's stdio transport owns stdout, so all logging goes to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := &config.Config{
		DefaultTimeout: config.DefaultTimeout,
		MaxToolCalls:   config.DefaultMaxToolCalls,
	}
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// Graceful shutdown on interrupt.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var providers []registry.Provider
	var remotes []*remote.Server
	for _, sc := range cfg.Servers {
		srv := remote.New(sc)
		remotes = append(remotes, srv)
		providers = append(providers, srv)
	}
	if len(remotes) > 0 {
		if err := remote.ConnectAll(ctx, remotes); err != nil {
			return fmt.Errorf("connecting tool servers: %w", err)
		}
		defer func() {
			for _, srv := range remotes {
				if err := srv.Close(); err != nil {
					logger.Warn("closing tool server", "server", srv.Name(), "error", err)
				}
			}
		}()
	}

	if len(providers) == 0 {
		logger.Warn("no tool servers configured; registering the built-in echo server")
		providers = append(providers, echo.New())
	}

	ts, err := toolscope.New(toolscope.Options{
		Providers:      providers,
		DefaultTimeout: cfg.Timeout(),
		MaxToolCalls:   cfg.MaxToolCalls,
		Logger:         slogLogger{logger},
	})
	if err != nil {
		return fmt.Errorf("creating runtime: %w", err)
	}

	server := serve.New(ts)

	if cfg.Listen != "" {
		logger.Info("serving MCP over streamable HTTP", "addr", cfg.Listen)
		httpServer := &http.Server{Addr: cfg.Listen, Handler: server.HTTPHandler()}
		go func() {
			<-ctx.Done()
			_ = httpServer.Close()
		}()
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}

	logger.Info("serving MCP over stdio", "servers", len(providers))
	return server.RunStdio(ctx)
}

// slogLogger adapts slog to the sandbox Logger interface.
type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) Logf(format string, args ...any) {
	s.l.Info(fmt.Sprintf(format, args...))
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Toolscope v%s — progressive-disclosure tool execution MCP server

Usage:
  toolscope serve [-config toolscope.yaml]   Start the MCP server (stdio unless listen is set)
  toolscope version                          Print the version
  toolscope help                             Show this help

The configuration file lists the external MCP tool servers to register at
startup; without one, a built-in echo server is registered for smoke testing.
`, serve.Version)
}
