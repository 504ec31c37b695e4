package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewWritesToAllWriters(t *testing.T) {
	var a, b bytes.Buffer
	log := New(false, &a, &b)
	log.Warn("tell failed", zap.String("verb", "father"))
	_ = log.Sync()

	for _, out := range []string{a.String(), b.String()} {
		if !strings.Contains(out, "WARN") || !strings.Contains(out, "tell failed") || !strings.Contains(out, `"verb": "father"`) {
			t.Errorf("unexpected log line: %q", out)
		}
	}
}

func TestDebugLevel(t *testing.T) {
	var quiet, loud bytes.Buffer
	New(false, &quiet).Debug("ask")
	New(true, &loud).Debug("ask")

	if quiet.Len() != 0 {
		t.Errorf("debug line written without debug: %q", quiet.String())
	}
	if !strings.Contains(loud.String(), "DEBUG") {
		t.Errorf("expected a debug line, got %q", loud.String())
	}
}

func TestLevelCanBeRaised(t *testing.T) {
	var buf bytes.Buffer
	level := Level(false)
	log := NewAtLevel(level, &buf)

	log.Debug("before")
	level.SetLevel(zap.DebugLevel)
	log.Debug("after")

	out := buf.String()
	if strings.Contains(out, "before") || !strings.Contains(out, "after") {
		t.Errorf("unexpected output: %q", out)
	}
}
