package remote

import (
	"context"
	"errors"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/toolscope/registry"
)

func TestServerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServerConfig
		wantErr bool
	}{
		{
			name:    "valid stdio",
			cfg:     ServerConfig{Name: "notes", Transport: TransportStdio, Command: "notes-mcp --stdio"},
			wantErr: false,
		},
		{
			name:    "valid http",
			cfg:     ServerConfig{Name: "weather", Transport: TransportStreamableHTTP, URL: "https://example.com/mcp"},
			wantErr: false,
		},
		{
			name:    "missing name",
			cfg:     ServerConfig{Transport: TransportStdio, Command: "tool"},
			wantErr: true,
		},
		{
			name:    "unknown transport",
			cfg:     ServerConfig{Name: "x", Transport: "carrier-pigeon"},
			wantErr: true,
		},
		{
			name:    "stdio without command",
			cfg:     ServerConfig{Name: "x", Transport: TransportStdio},
			wantErr: true,
		},
		{
			name:    "stdio with blank command",
			cfg:     ServerConfig{Name: "x", Transport: TransportStdio, Command: "   "},
			wantErr: true,
		},
		{
			name:    "http without url",
			cfg:     ServerConfig{Name: "x", Transport: TransportStreamableHTTP},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestServer_ImplementsProvider(t *testing.T) {
	t.Helper()
	var _ registry.Provider = (*Server)(nil)
}

func TestServer_Unconnected(t *testing.T) {
	srv := New(ServerConfig{Name: "notes", Description: "Note tools", Transport: TransportStdio, Command: "notes-mcp"})

	if srv.Name() != "notes" {
		t.Errorf("expected name 'notes', got %q", srv.Name())
	}
	if srv.Description() != "Note tools" {
		t.Errorf("unexpected description %q", srv.Description())
	}
	if names := srv.ToolNames(); len(names) != 0 {
		t.Errorf("expected empty catalog before Connect, got %v", names)
	}

	if _, err := srv.Schema("anything"); !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("expected ErrNotFound before Connect, got %v", err)
	}
	if _, err := srv.Invoke(context.Background(), "anything", nil); err == nil {
		t.Error("expected error invoking an unconnected server")
	}
}

func TestServer_Close_Idempotent(t *testing.T) {
	srv := New(ServerConfig{Name: "notes", Transport: TransportStdio, Command: "notes-mcp"})
	if err := srv.Close(); err != nil {
		t.Errorf("unexpected error closing unconnected server: %v", err)
	}
	if err := srv.Close(); err != nil {
		t.Errorf("unexpected error on second close: %v", err)
	}
}

func TestConnect_InvalidConfig(t *testing.T) {
	srv := New(ServerConfig{Name: "bad", Transport: "carrier-pigeon"})
	if err := srv.Connect(context.Background()); err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestBuildSchema(t *testing.T) {
	tool := mcpsdk.Tool{
		Name:        "create_note",
		Description: "Create a new note.\nLonger documentation follows.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{
					"type":        "string",
					"description": "Note title",
				},
				"pinned": map[string]any{
					"type":    "boolean",
					"default": false,
				},
			},
			"required": []any{"title"},
		},
	}

	schema := buildSchema("notes", tool)

	if schema.Name != "create_note" || schema.Server != "notes" {
		t.Errorf("unexpected identity %s:%s", schema.Server, schema.Name)
	}
	if schema.Summary != "Create a new note." {
		t.Errorf("expected first-line summary, got %q", schema.Summary)
	}
	if len(schema.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(schema.Params))
	}

	// Properties are sorted for reproducible schemas.
	pinned, title := schema.Params[0], schema.Params[1]
	if pinned.Name != "pinned" || title.Name != "title" {
		t.Fatalf("expected sorted params [pinned title], got [%s %s]", pinned.Name, title.Name)
	}
	if !title.Required || title.Type != "string" || title.Description != "Note title" {
		t.Errorf("unexpected title param: %+v", title)
	}
	if pinned.Required || pinned.Type != "boolean" || pinned.Default != false {
		t.Errorf("unexpected pinned param: %+v", pinned)
	}
}

func TestBuildSchema_NoInputSchema(t *testing.T) {
	schema := buildSchema("notes", mcpsdk.Tool{Name: "list_notes", Description: "List notes"})
	if len(schema.Params) != 0 {
		t.Errorf("expected no params, got %v", schema.Params)
	}
}

func TestSchemaToMap(t *testing.T) {
	tests := []struct {
		name   string
		schema any
		want   string // value of "type"
	}{
		{"nil", nil, "object"},
		{"plain map", map[string]any{"type": "object"}, "object"},
		{"marshalable struct", struct {
			Type string `json:"type"`
		}{Type: "object"}, "object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := schemaToMap(tt.schema)
			if m["type"] != tt.want {
				t.Errorf("expected type %q, got %v", tt.want, m["type"])
			}
		})
	}
}

func TestToResultMap(t *testing.T) {
	if _, ok := toResultMap(nil); ok {
		t.Error("nil content must not convert")
	}

	m, ok := toResultMap(map[string]any{"success": true})
	if !ok || m["success"] != true {
		t.Errorf("expected map passthrough, got %v (%v)", m, ok)
	}

	m, ok = toResultMap(struct {
		Count int `json:"count"`
	}{Count: 3})
	if !ok || m["count"] != float64(3) {
		t.Errorf("expected JSON round-trip, got %v (%v)", m, ok)
	}

	if _, ok := toResultMap("just text"); ok {
		t.Error("scalar content must not convert to a map")
	}
}

func TestBuildCommand_EnvExtendsParent(t *testing.T) {
	t.Setenv("TOOLSCOPE_TEST_MARKER", "inherited")

	cmd := buildCommand(context.Background(), ServerConfig{
		Name:      "notes",
		Transport: TransportStdio,
		Command:   "notes-mcp --stdio",
		Env:       map[string]string{"API_KEY": "secret"},
	})

	var hasMarker, hasExtra bool
	for _, kv := range cmd.Env {
		switch kv {
		case "TOOLSCOPE_TEST_MARKER=inherited":
			hasMarker = true
		case "API_KEY=secret":
			hasExtra = true
		}
	}
	if !hasMarker {
		t.Error("expected subprocess to inherit the parent environment")
	}
	if !hasExtra {
		t.Error("expected configured env entry in subprocess environment")
	}
}

func TestBuildCommand_NoEnvInherits(t *testing.T) {
	cmd := buildCommand(context.Background(), ServerConfig{
		Name:      "notes",
		Transport: TransportStdio,
		Command:   "notes-mcp",
	})
	// nil Env means os/exec inherits the parent environment wholesale.
	if cmd.Env != nil {
		t.Errorf("expected nil Env without configured entries, got %v", cmd.Env)
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"one line", "one line"},
		{"first\nsecond", "first"},
		{"  padded  \nrest", "padded"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := firstLine(tt.in); got != tt.want {
			t.Errorf("firstLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitCommand(t *testing.T) {
	exe, args := splitCommand("notes-mcp --stdio --verbose")
	if exe != "notes-mcp" {
		t.Errorf("expected executable 'notes-mcp', got %q", exe)
	}
	if len(args) != 2 || args[0] != "--stdio" || args[1] != "--verbose" {
		t.Errorf("unexpected args %v", args)
	}

	exe, args = splitCommand("   ")
	if exe != "" || args != nil {
		t.Errorf("expected empty split, got %q %v", exe, args)
	}
}
