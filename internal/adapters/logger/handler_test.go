package logger_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/chore/internal/adapters/logger"
	"go.trai.ch/chore/internal/ui/output"
)

func newHandler(buf *bytes.Buffer, level slog.Level) *logger.PrettyHandler {
	return logger.NewPrettyHandler(buf, &logger.HandlerOptions{
		HandlerOptions: slog.HandlerOptions{Level: level},
		Color:          output.ColorNever,
	})
}

func TestPrettyHandler_Handle_Levels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		msg        string
		goldenName string
	}{
		{
			name:       "info level",
			level:      slog.LevelInfo,
			msg:        "information message",
			goldenName: "handler_info",
		},
		{
			name:       "warn level",
			level:      slog.LevelWarn,
			msg:        "warning message",
			goldenName: "handler_warn",
		},
		{
			name:       "error level",
			level:      slog.LevelError,
			msg:        "error message",
			goldenName: "handler_error",
		},
		{
			name:       "debug level filtered",
			level:      slog.LevelDebug,
			msg:        "debug message",
			goldenName: "handler_debug_filtered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			lg := slog.New(newHandler(buf, slog.LevelInfo))

			lg.Log(t.Context(), tt.level, tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_Attrs(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(h slog.Handler) slog.Handler
		msg        string
		attrs      []any
		goldenName string
	}{
		{
			name: "handler attrs with record attrs",
			setup: func(h slog.Handler) slog.Handler {
				return h.WithAttrs([]slog.Attr{slog.String("run", "01J0")})
			},
			msg:        "combined message",
			attrs:      []any{"task", "spec"},
			goldenName: "handler_combined_attrs",
		},
		{
			name: "group attribute",
			setup: func(h slog.Handler) slog.Handler {
				return h.WithAttrs([]slog.Attr{slog.Group("g", slog.String("k", "v"))})
			},
			msg:        "group attr message",
			goldenName: "handler_attrs_group",
		},
		{
			name: "nested groups",
			setup: func(h slog.Handler) slog.Handler {
				return h.WithGroup("a").WithGroup("b")
			},
			msg:        "nested group message",
			attrs:      []any{"key", "val"},
			goldenName: "handler_group_nested",
		},
		{
			name: "group with handler and record attrs",
			setup: func(h slog.Handler) slog.Handler {
				return h.WithGroup("req").WithAttrs([]slog.Attr{slog.String("id", "123")})
			},
			msg:        "grouped message",
			attrs:      []any{"extra", "data"},
			goldenName: "handler_combined_group",
		},
		{
			name: "empty group name",
			setup: func(h slog.Handler) slog.Handler {
				return h.WithGroup("")
			},
			msg:        "empty group test",
			attrs:      []any{"key", "val"},
			goldenName: "handler_group_empty",
		},
		{
			name: "empty message",
			setup: func(h slog.Handler) slog.Handler {
				return h
			},
			attrs:      []any{"count", 42, "enabled", true},
			goldenName: "handler_record_empty_msg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			lg := slog.New(tt.setup(newHandler(buf, slog.LevelInfo)))

			lg.Info(tt.msg, tt.attrs...)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	tests := []struct {
		name         string
		handlerLevel slog.Level
		recordLevel  slog.Level
		wantEnabled  bool
	}{
		{"debug below info", slog.LevelInfo, slog.LevelDebug, false},
		{"info at info", slog.LevelInfo, slog.LevelInfo, true},
		{"error above info", slog.LevelInfo, slog.LevelError, true},
		{"warn below error", slog.LevelError, slog.LevelWarn, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(&bytes.Buffer{}, tt.handlerLevel)
			assert.Equal(t, tt.wantEnabled, h.Enabled(t.Context(), tt.recordLevel))
		})
	}
}

func TestPrettyHandler_ColorAlways(t *testing.T) {
	buf := &bytes.Buffer{}
	h := logger.NewPrettyHandler(buf, &logger.HandlerOptions{Color: output.ColorAlways})

	slog.New(h).Warn("careful")

	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "! careful")
}

func TestPrettyHandler_NilWriter(t *testing.T) {
	require.NotPanics(t, func() {
		_ = logger.NewPrettyHandler(nil, nil)
	})
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestPrettyHandler_Handle_ReturnsError(t *testing.T) {
	h := logger.NewPrettyHandler(brokenWriter{}, &logger.HandlerOptions{Color: output.ColorNever})

	var rec slog.Record
	rec.Level = slog.LevelInfo
	rec.Message = "lost"

	require.Error(t, h.Handle(t.Context(), rec))
}
