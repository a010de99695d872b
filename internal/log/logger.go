// Package log wraps slog with component-scoped loggers and the shared
// field vocabulary the handlers and workers log with.
package log

import (
	"log/slog"
	"os"
)

// Config controls the handler, level and the component attribute
// attached to every record.
type Config struct {
	Level     slog.Level
	Component string
	Handler   slog.Handler
}

func DefaultConfig() Config {
	return Config{Level: slog.LevelInfo, Component: ComponentApp}
}

// Logger is a slog.Logger that remembers its component so derived
// loggers can re-scope without rebuilding the handler chain.
type Logger struct {
	*slog.Logger
	component string
}

// New builds a logger from the config. A nil Handler gets a text
// handler on stdout at the configured level.
func New(cfg Config) *Logger {
	handler := cfg.Handler
	if handler == nil {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level})
	}
	component := cfg.Component
	if component == "" {
		component = ComponentApp
	}
	return &Logger{
		Logger:    slog.New(handler).With(FieldComponent, component),
		component: component,
	}
}

// With returns a logger with extra attributes attached to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), component: l.component}
}

// WithComponent re-scopes the logger to another component. The handler
// is shared, so level and output stay the same; accumulated attributes
// are not carried over.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    slog.New(l.Handler()).With(FieldComponent, component),
		component: component,
	}
}

// Component returns the component this logger is scoped to.
func (l *Logger) Component() string { return l.component }

// SetDefault installs the logger as the process-wide slog default.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}
