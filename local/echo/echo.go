// Package echo provides the built-in echo tool server. It exists for smoke
// tests, examples, and as the default server when nothing else is configured.
package echo

import (
	"context"
	"strings"

	"github.com/jonwraymond/toolscope/local"
	"github.com/jonwraymond/toolscope/registry"
)

// New creates the echo server with its ping and shout tools.
func New() *local.Server {
	srv := local.New("echo", "Echo server that returns what it is given")

	srv.MustRegister(local.ToolDef{
		Name:    "ping",
		Summary: "Returns the message it was given",
		Params: []registry.Param{
			{Name: "message", Type: "string", Required: true, Description: "Text to echo back"},
		},
		Returns: "{success: true, message: <input>}",
		Handler: func(_ context.Context, args map[string]any) (map[string]any, error) {
			return map[string]any{
				"success": true,
				"message": args["message"],
			}, nil
		},
	})

	srv.MustRegister(local.ToolDef{
		Name:    "shout",
		Summary: "Returns the message uppercased, with optional repetition",
		Params: []registry.Param{
			{Name: "message", Type: "string", Required: true, Description: "Text to shout"},
			{Name: "times", Type: "integer", Required: false, Default: 1, Description: "How many times to repeat"},
		},
		Returns: "{success: true, message: <uppercased input>}",
		Handler: func(_ context.Context, args map[string]any) (map[string]any, error) {
			msg, _ := args["message"].(string)
			times := 1
			switch n := args["times"].(type) {
			case int:
				times = n
			case int64:
				times = int(n)
			case float64:
				times = int(n)
			}
			if times < 1 {
				times = 1
			}
			parts := make([]string, times)
			for i := range parts {
				parts[i] = strings.ToUpper(msg)
			}
			return map[string]any{
				"success": true,
				"message": strings.Join(parts, " "),
			}, nil
		},
	})

	return srv
}
