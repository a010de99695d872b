package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestComponentAttached(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Handler: slog.NewTextHandler(&buf, nil), Component: "worker"})
	l.Info("hello")
	if !strings.Contains(buf.String(), "component=worker") {
		t.Fatalf("missing component attribute: %s", buf.String())
	}
}

func TestDefaultComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Handler: slog.NewTextHandler(&buf, nil)})
	l.Info("hello")
	if !strings.Contains(buf.String(), "component="+ComponentApp) {
		t.Fatalf("empty component must fall back to %s: %s", ComponentApp, buf.String())
	}
}

func TestWithComponentRescopes(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Handler: slog.NewTextHandler(&buf, nil), Component: "app"})

	l.WithComponent("http").Info("request")
	out := buf.String()
	if !strings.Contains(out, "component=http") {
		t.Fatalf("re-scoped component missing: %s", out)
	}
	if strings.Contains(out, "component=app") {
		t.Fatalf("old component must not leak into re-scoped records: %s", out)
	}
	if l.Component() != "app" {
		t.Fatalf("original logger must keep its component, got %s", l.Component())
	}
}
