package registry

import "context"

// fakeProvider implements Provider for registry tests.
type fakeProvider struct {
	name        string
	description string
	tools       []string

	invokeResult map[string]any
	invokeErr    error
	schemaErr    error

	schemaCalls int

	invokeCalls []string
}

func (f *fakeProvider) Name() string        { return f.name }
func (f *fakeProvider) Description() string { return f.description }
func (f *fakeProvider) ToolNames() []string { return f.tools }

func (f *fakeProvider) Schema(tool string) (ToolSchema, error) {
	f.schemaCalls++
	if f.schemaErr != nil {
		return ToolSchema{}, f.schemaErr
	}
	for _, t := range f.tools {
		if t == tool {
			return ToolSchema{Name: tool, Server: f.name, Summary: "fake " + tool}, nil
		}
	}
	return ToolSchema{}, &NotFoundError{Server: f.name, Tool: tool}
}

func (f *fakeProvider) Invoke(_ context.Context, tool string, _ map[string]any) (map[string]any, error) {
	f.invokeCalls = append(f.invokeCalls, tool)
	return f.invokeResult, f.invokeErr
}
