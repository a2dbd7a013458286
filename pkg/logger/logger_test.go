package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"uptime-monitor/config"
)

func TestInit_WritesJSONToRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uptime.log")
	cfg := &config.Config{
		Env:         "production",
		ServiceName: "uptime-test",
		Log:         config.LogConfig{File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1},
	}

	l := Init(cfg)
	l.Info().Str("site", "https://example.com").Msg("probe recorded")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(data)
	for _, want := range []string{`"service":"uptime-test"`, `"env":"production"`, `"message":"probe recorded"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line %q missing %s", line, want)
		}
	}
}

func TestNop_Disabled(t *testing.T) {
	if Nop().Info().Enabled() {
		t.Fatal("nop logger must not emit")
	}
}
