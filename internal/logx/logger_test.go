package logx

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(envLogLevel, "")
	t.Setenv(envLogOutput, "")
	cfg := LoadConfig("pokereports", false)
	if cfg.Level != slog.LevelWarn {
		t.Fatalf("expected warn level by default, got %v", cfg.Level)
	}
	if cfg.Output != "stderr" || cfg.Format != "text" {
		t.Fatalf("unexpected defaults: output=%q format=%q", cfg.Output, cfg.Format)
	}

	if got := LoadConfig("pokereports", true).Level; got != slog.LevelDebug {
		t.Fatalf("expected verbose to force debug, got %v", got)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv(envLogLevel, "ERROR")
	t.Setenv(envLogFormat, "json")
	t.Setenv(envLogOutput, "stderr, file")
	t.Setenv(envLogFileMaxBackups, "-2")

	cfg := LoadConfig("pokereports", false)
	if cfg.Level != slog.LevelError || cfg.Format != "json" || cfg.Output != "stderr,file" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.MaxBackups != defaultMaxBackups {
		t.Fatalf("expected invalid backups to fall back, got %d", cfg.MaxBackups)
	}
}

func TestInitWritesToFileAndStderr(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "cli.log")
	var stderr bytes.Buffer
	logger, closeFn, err := InitWithConfig(Config{
		Level:       slog.LevelInfo,
		Format:      "text",
		Output:      "stderr,file",
		FilePath:    path,
		MaxSizeMB:   1,
		MaxBackups:  1,
		MaxAgeDays:  1,
		ServiceName: "pokereports",
	}, &stderr)
	if err != nil {
		t.Fatalf("InitWithConfig() error = %v", err)
	}
	logger.Info("report refreshed", "count", 3)
	if err := closeFn(); err != nil {
		t.Fatalf("close error = %v", err)
	}

	if !strings.Contains(stderr.String(), "report refreshed") {
		t.Fatalf("expected stderr to receive log line, got %q", stderr.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "service=pokereports") {
		t.Fatalf("expected service attribute in file log, got %q", string(data))
	}
}
