package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels_WriteExpectedOutput(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "msg=dbg", "a=1",
		"level=INFO", "msg=inf", "b=2",
		"level=WARN", "msg=wrn", "c=3",
		"level=ERROR", "msg=err", "d=4",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("module", "httpapi", "request_id", "r-1").Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	for _, s := range []string{"msg=hello", "module=httpapi", "request_id=r-1", "k=v"} {
		if !strings.Contains(out, s) {
			t.Fatalf("expected %q in output, got:\n%s", s, out)
		}
	}
}

func TestNewJSON_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSON(&buf, "warn")

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown", "subject", "math")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "math", rec["subject"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop().With("a", 1)
	l.Debug(context.Background(), "x")
	l.Info(context.Background(), "x")
	l.Warn(context.Background(), "x")
	l.Error(context.Background(), "x")
}
