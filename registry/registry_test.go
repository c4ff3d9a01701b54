package registry

import (
	"errors"
	"strings"
	"testing"
)

func buildTestRegistry(t *testing.T) *Registry {
	t.Helper()
	b := NewBuilder()
	servers := []*fakeProvider{
		{name: "alpha", description: "first server", tools: []string{"one", "two"}},
		{name: "beta", description: "second server", tools: []string{"three"}},
		{name: "gamma", description: "third server", tools: nil},
	}
	for _, s := range servers {
		if err := b.Register(s); err != nil {
			t.Fatalf("unexpected register error: %v", err)
		}
	}
	return b.Build()
}

func TestListServers_InsertionOrder(t *testing.T) {
	reg := buildTestRegistry(t)

	got := reg.ListServers()
	want := []string{"alpha", "beta", "gamma"}
	if len(got) != len(want) {
		t.Fatalf("expected %d servers, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("server[%d] = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestListServers_NoSchemaPayload(t *testing.T) {
	// The discovery call carries names and descriptions only; its size must
	// not depend on how many tools a server exposes.
	big := &fakeProvider{name: "big", description: "many tools"}
	for i := 0; i < 500; i++ {
		big.tools = append(big.tools, strings.Repeat("x", 50))
	}
	small := &fakeProvider{name: "small", description: "many tools"}

	bigReg := NewBuilder()
	if err := bigReg.Register(big); err != nil {
		t.Fatal(err)
	}
	smallReg := NewBuilder()
	if err := smallReg.Register(small); err != nil {
		t.Fatal(err)
	}

	bigList := bigReg.Build().ListServers()
	smallList := smallReg.Build().ListServers()
	if len(bigList) != 1 || len(smallList) != 1 {
		t.Fatal("expected one server in each registry")
	}
	if bigList[0].Description != smallList[0].Description {
		t.Error("descriptions should be identical")
	}
	// ServerSummary has no tool fields; equality of everything but the name
	// shows the payload is independent of the tool count.
	if bigList[0] != (ServerSummary{Name: "big", Description: "many tools"}) {
		t.Errorf("unexpected summary: %+v", bigList[0])
	}
}

func TestGet_UnknownServer(t *testing.T) {
	reg := buildTestRegistry(t)

	_, err := reg.Get("missing")
	if err == nil {
		t.Fatal("expected error for unknown server")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %T", err)
	}
	if nf.Server != "missing" {
		t.Errorf("NotFoundError.Server = %q, want %q", nf.Server, "missing")
	}
	if !strings.Contains(nf.Error(), "list_servers") {
		t.Errorf("expected discovery hint in message, got %q", nf.Error())
	}
}

func TestToolNames(t *testing.T) {
	reg := buildTestRegistry(t)

	names, err := reg.ToolNames("alpha")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[0] != "one" || names[1] != "two" {
		t.Errorf("unexpected tool names: %v", names)
	}

	if _, err := reg.ToolNames("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestToolNames_CopyIsIndependent(t *testing.T) {
	reg := buildTestRegistry(t)

	names, _ := reg.ToolNames("alpha")
	names[0] = "mutated"

	again, _ := reg.ToolNames("alpha")
	if again[0] != "one" {
		t.Error("mutating a returned slice must not affect the registry")
	}
}

func TestHasTool(t *testing.T) {
	reg := buildTestRegistry(t)

	tests := []struct {
		server, tool string
		want         bool
	}{
		{"alpha", "one", true},
		{"alpha", "three", false},
		{"beta", "three", true},
		{"gamma", "anything", false},
		{"missing", "one", false},
	}
	for _, tc := range tests {
		if got := reg.HasTool(tc.server, tc.tool); got != tc.want {
			t.Errorf("HasTool(%q, %q) = %v, want %v", tc.server, tc.tool, got, tc.want)
		}
	}
}

func TestEveryListedToolResolves(t *testing.T) {
	// Invariant: every tool name returned for a server must resolve in the
	// provider for the lifetime of the process.
	reg := buildTestRegistry(t)

	for _, srv := range reg.ListServers() {
		entry, err := reg.Get(srv.Name)
		if err != nil {
			t.Fatalf("Get(%q): %v", srv.Name, err)
		}
		for _, tool := range entry.ToolNames {
			if _, err := entry.Provider().Schema(tool); err != nil {
				t.Errorf("schema for %s:%s: %v", srv.Name, tool, err)
			}
		}
	}
}

func TestBuilder_DuplicateName(t *testing.T) {
	b := NewBuilder()
	if err := b.Register(&fakeProvider{name: "dup"}); err != nil {
		t.Fatal(err)
	}
	if err := b.Register(&fakeProvider{name: "dup"}); err == nil {
		t.Fatal("expected error for duplicate server name")
	}
}

func TestBuilder_EmptyName(t *testing.T) {
	b := NewBuilder()
	if err := b.Register(&fakeProvider{}); err == nil {
		t.Fatal("expected error for empty server name")
	}
}

func TestBuilder_NilProvider(t *testing.T) {
	b := NewBuilder()
	if err := b.Register(nil); err == nil {
		t.Fatal("expected error for nil provider")
	}
}

func TestBuilder_UnresolvableSchema(t *testing.T) {
	b := NewBuilder()
	p := &fakeProvider{
		name:      "broken",
		tools:     []string{"phantom"},
		schemaErr: &NotFoundError{Server: "broken", Tool: "phantom"},
	}
	if err := b.Register(p); err == nil {
		t.Fatal("expected error when a listed tool has no schema")
	}
}

func TestSummary_CachedAtRegistration(t *testing.T) {
	p := &fakeProvider{name: "files", tools: []string{"read_file", "write_file"}}
	b := NewBuilder()
	if err := b.Register(p); err != nil {
		t.Fatal(err)
	}
	reg := b.Build()

	entry, err := reg.Get("files")
	if err != nil {
		t.Fatal(err)
	}

	// Registration derives each summary exactly once; reads afterwards
	// must not go back to the provider.
	calls := p.schemaCalls
	if calls != len(p.tools) {
		t.Fatalf("schema calls at build = %d, want %d", calls, len(p.tools))
	}
	if got := entry.Summary("read_file"); got != "fake read_file" {
		t.Errorf("Summary(read_file) = %q, want %q", got, "fake read_file")
	}
	if got := entry.Summary("no_such_tool"); got != "" {
		t.Errorf("Summary(no_such_tool) = %q, want empty", got)
	}
	if p.schemaCalls != calls {
		t.Errorf("schema calls after reads = %d, want %d", p.schemaCalls, calls)
	}
}

func TestRegistry_Len(t *testing.T) {
	reg := buildTestRegistry(t)
	if reg.Len() != 3 {
		t.Errorf("Len() = %d, want 3", reg.Len())
	}
}
