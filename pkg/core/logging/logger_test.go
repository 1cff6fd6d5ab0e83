package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := DefaultLoggerConfig("asmfmt")

	if cfg.ServiceName != "asmfmt" {
		t.Errorf("ServiceName = %v, want asmfmt", cfg.ServiceName)
	}
	if cfg.Level != "warn" {
		t.Errorf("Level = %v, want warn", cfg.Level)
	}
	if cfg.Format != "text" {
		t.Errorf("Format = %v, want text", cfg.Format)
	}
}

func TestNewLogger_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewLogger(LoggerConfig{
		ServiceName: "asmfmt",
		Level:       "info",
		Output:      buf,
		RunID:       "abc123",
	})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	logger.Debug("hidden")
	logger.Info("formatted", map[string]interface{}{"file": "boot.asm"})

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected debug to be filtered, got %q", out)
	}
	if !strings.Contains(out, "{asmfmt} formatted file=boot.asm run=abc123") {
		t.Errorf("Expected text line with run id, got %q", out)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewLogger(LoggerConfig{
		ServiceName: "asmfmt",
		Level:       "debug",
		Format:      "json",
		Output:      buf,
	})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	logger.Debug("parsing")

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", buf.String(), err)
	}
	runID, _ := decoded["request_id"].(string)
	if len(runID) != 8 {
		t.Errorf("Expected generated 8 character run id, got %q", runID)
	}
}

func TestNewLogger_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		cfg  LoggerConfig
	}{
		{"bad level", LoggerConfig{Level: "loud"}},
		{"bad format", LoggerConfig{Format: "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Output = &bytes.Buffer{}
			logger, err := NewLogger(tt.cfg)
			if err == nil {
				t.Error("Expected error for invalid configuration")
			}
			if logger == nil {
				t.Fatal("Expected fallback logger")
			}
		})
	}
}

func TestNewRunID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := NewRunID()
		if seen[id] {
			t.Fatalf("Duplicate run id %s", id)
		}
		seen[id] = true
	}
}
