package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"DEBUG", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"", logrus.InfoLevel},
		{"verbose", logrus.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfigure_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	Configure("info", "json")

	WithField("file", "a.jpg").Info("detected crops")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["file"] != "a.jpg" || entry["msg"] != "detected crops" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestConfigure_TextAndLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	Configure("warn", "text")
	defer Configure("info", "json")

	Info("hidden")
	Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn message missing")
	}
}
