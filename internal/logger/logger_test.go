package logger_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/logger"
)

func TestNew_WritesJSONToOutputPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.log")

	l, err := logger.New(logger.Config{Level: "debug", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.With(logger.String("source", "TechCrunch")).Info("feed fetched", logger.Int("articles", 3))
	_ = l.Sync()

	raw, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("read log file: %v", readErr)
	}

	line := string(raw)
	for _, want := range []string{`"msg":"feed fetched"`, `"source":"TechCrunch"`, `"articles":3`} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %s", line, want)
		}
	}
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.log")

	l, err := logger.New(logger.Config{Level: "warn", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Debug("hidden")
	l.Warn("shown", logger.Error(errors.New("boom")))
	_ = l.Sync()

	raw, _ := os.ReadFile(path)
	if strings.Contains(string(raw), "hidden") {
		t.Error("debug entry written at warn level")
	}
	if !strings.Contains(string(raw), "boom") {
		t.Error("warn entry missing error field")
	}
}

func TestWithContext_FromContext_RoundTrip(t *testing.T) {
	t.Parallel()

	nop := logger.NewNop()
	ctx := logger.WithContext(context.Background(), nop)

	if got := logger.FromContext(ctx); got != nop {
		t.Errorf("FromContext returned %v, want %v", got, nop)
	}
}

func TestFromContext_NoLogger_ReturnsUsableFallback(t *testing.T) {
	t.Parallel()

	fallback := logger.FromContext(context.Background())
	if fallback == nil {
		t.Fatal("FromContext on empty context returned nil")
	}

	fallback.Info("filtered at warn level")
	fallback.Warn("with field", logger.String("key", "value"))
}
