package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := logger
	logger = log.New(&buf, "", 0)
	t.Cleanup(func() {
		logger = orig
		Init("info")
	})
	return &buf
}

func TestInitAndLevelString(t *testing.T) {
	Init("debug")
	if got := LevelString(); got != "debug" {
		t.Fatalf("LevelString() = %q, want %q", got, "debug")
	}
	Init("WARN")
	if got := LevelString(); got != "warn" {
		t.Fatalf("LevelString() = %q, want %q", got, "warn")
	}
	Init("Error")
	if got := LevelString(); got != "error" {
		t.Fatalf("LevelString() = %q, want %q", got, "error")
	}
	Init("nonsense")
	if got := LevelString(); got != "info" {
		t.Fatalf("LevelString() = %q, want %q for unknown input", got, "info")
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := captureOutput(t)

	Init("warn")
	Debugf("debug-msg")
	Infof("info-msg")
	Warnf("warn-msg")
	Errorf("error-msg")

	out := buf.String()
	if strings.Contains(out, "debug-msg") {
		t.Fatalf("debug messages should be suppressed at warn level")
	}
	if strings.Contains(out, "info-msg") {
		t.Fatalf("info messages should be suppressed at warn level")
	}
	if !strings.Contains(out, "[WARN] warn-msg") {
		t.Fatalf("warn message missing: %q", out)
	}
	if !strings.Contains(out, "[ERROR] error-msg") {
		t.Fatalf("error message missing: %q", out)
	}
}

func TestEntryFields(t *testing.T) {
	buf := captureOutput(t)
	Init("info")

	e := With("op", "create", "blob", "abc-oak.png")
	e.With("status", 201).Infof("product stored")
	e.Debugf("hidden")

	out := buf.String()
	if !strings.Contains(out, "product stored blob=abc-oak.png op=create status=201") {
		t.Fatalf("fields not rendered in key order: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry should be suppressed at info level")
	}

	buf.Reset()
	With("msg", "two words", "dangling").Warnf("x")
	out = buf.String()
	if !strings.Contains(out, `msg="two words"`) || !strings.Contains(out, "dangling=(missing)") {
		t.Fatalf("unexpected field rendering: %q", out)
	}
}
