package util

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, false)

	logger.Debug("hidden", "book", 1342)
	logger.Info("built graph", "nodes", 12)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "built graph") || !strings.Contains(out, "nodes=12") {
		t.Errorf("missing info line: %q", out)
	}
	if !strings.Contains(out, "bookrel") {
		t.Errorf("missing prefix: %q", out)
	}

	buf.Reset()
	NewLogger(&buf, true).Debug("resolved aliases", "aliases", 3)
	if !strings.Contains(buf.String(), "resolved aliases") {
		t.Errorf("verbose logger dropped debug line: %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error("dropped")
	if logger.GetLevel() <= 0 {
		t.Errorf("Discard level = %v", logger.GetLevel())
	}
}
