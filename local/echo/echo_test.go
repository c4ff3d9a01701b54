package echo_test

import (
	"context"
	"testing"

	"github.com/jonwraymond/toolscope/local/echo"
)

func TestPing(t *testing.T) {
	srv := echo.New()

	result, err := srv.Invoke(context.Background(), "ping", map[string]any{"message": "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if success, _ := result["success"].(bool); !success {
		t.Errorf("expected success true, got %v", result)
	}
	if result["message"] != "hi" {
		t.Errorf("expected message 'hi', got %v", result["message"])
	}
}

func TestPing_MissingMessage(t *testing.T) {
	srv := echo.New()

	_, err := srv.Invoke(context.Background(), "ping", map[string]any{})
	if err == nil {
		t.Fatal("expected error for missing required argument")
	}
}

func TestShout(t *testing.T) {
	srv := echo.New()

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"default times", map[string]any{"message": "hey"}, "HEY"},
		{"explicit times", map[string]any{"message": "go", "times": 3}, "GO GO GO"},
		{"float times from wire", map[string]any{"message": "go", "times": float64(2)}, "GO GO"},
		{"times below one", map[string]any{"message": "go", "times": 0}, "GO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := srv.Invoke(context.Background(), "shout", tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result["message"] != tt.want {
				t.Errorf("expected %q, got %v", tt.want, result["message"])
			}
		})
	}
}

func TestToolOrder(t *testing.T) {
	srv := echo.New()

	names := srv.ToolNames()
	if len(names) != 2 || names[0] != "ping" || names[1] != "shout" {
		t.Errorf("expected [ping shout], got %v", names)
	}
}
