package logx

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultLevel         = "warn"
	defaultFormat        = "text"
	defaultOutput        = "stderr"
	defaultFilePath      = "./logs/pokereports.log"
	defaultMaxSizeMB     = 20
	defaultMaxBackups    = 3
	defaultMaxAgeDays    = 7
	defaultCompress      = true
	envLogLevel          = "POKEREPORTS_LOG_LEVEL"
	envLogFormat         = "POKEREPORTS_LOG_FORMAT"
	envLogOutput         = "POKEREPORTS_LOG_OUTPUT"
	envLogFilePath       = "POKEREPORTS_LOG_FILE_PATH"
	envLogFileMaxSizeMB  = "POKEREPORTS_LOG_FILE_MAX_SIZE_MB"
	envLogFileMaxBackups = "POKEREPORTS_LOG_FILE_MAX_BACKUPS"
	envLogFileMaxAgeDays = "POKEREPORTS_LOG_FILE_MAX_AGE_DAYS"
)

type Config struct {
	Level       slog.Level
	Format      string
	Output      string
	FilePath    string
	MaxSizeMB   int
	MaxBackups  int
	MaxAgeDays  int
	Compress    bool
	ServiceName string
}

// LoadConfig reads the logging settings from the environment. verbose
// forces debug level regardless of POKEREPORTS_LOG_LEVEL.
func LoadConfig(serviceName string, verbose bool) Config {
	cfg := Config{
		Level:       parseLevel(getenv(envLogLevel, defaultLevel)),
		Format:      normalizeFormat(getenv(envLogFormat, defaultFormat)),
		Output:      normalizeOutput(getenv(envLogOutput, defaultOutput)),
		FilePath:    getenv(envLogFilePath, defaultFilePath),
		MaxSizeMB:   getenvInt(envLogFileMaxSizeMB, defaultMaxSizeMB),
		MaxBackups:  getenvInt(envLogFileMaxBackups, defaultMaxBackups),
		MaxAgeDays:  getenvInt(envLogFileMaxAgeDays, defaultMaxAgeDays),
		Compress:    defaultCompress,
		ServiceName: serviceName,
	}
	if verbose {
		cfg.Level = slog.LevelDebug
	}
	return cfg
}

// Init builds the process logger, installs it as slog's default and returns
// a closer for any log files it opened.
func Init(serviceName string, verbose bool) (*slog.Logger, func() error, error) {
	return InitWithConfig(LoadConfig(serviceName, verbose), os.Stderr)
}

// InitWithConfig is Init with explicit settings; stderr receives the
// "stderr" output.
func InitWithConfig(cfg Config, stderr io.Writer) (*slog.Logger, func() error, error) {
	writer, closer, err := buildWriter(cfg, stderr)
	if err != nil {
		return nil, nil, err
	}
	handler := buildHandler(cfg, writer)
	logger := slog.New(handler).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	return logger, closer, nil
}

func buildHandler(cfg Config, writer io.Writer) slog.Handler {
	options := &slog.HandlerOptions{
		Level: cfg.Level,
	}
	if cfg.Format == "json" {
		return slog.NewJSONHandler(writer, options)
	}
	return slog.NewTextHandler(writer, options)
}

func buildWriter(cfg Config, stderr io.Writer) (io.Writer, func() error, error) {
	useStderr := strings.Contains(cfg.Output, "stderr")
	useFile := strings.Contains(cfg.Output, "file")

	if !useStderr && !useFile {
		useStderr = true
	}

	writers := make([]io.Writer, 0, 2)
	var closers []io.Closer

	if useStderr {
		writers = append(writers, stderr)
	}

	if useFile {
		logDir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, nil, err
		}
		rotator := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		writers = append(writers, rotator)
		closers = append(closers, rotator)
	}

	closeFn := func() error {
		var lastErr error
		for _, c := range closers {
			if err := c.Close(); err != nil {
				lastErr = err
			}
		}
		return lastErr
	}

	if len(writers) == 1 {
		return writers[0], closeFn, nil
	}
	return io.MultiWriter(writers...), closeFn, nil
}

func normalizeFormat(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "json":
		return "json"
	default:
		return "text"
	}
}

func normalizeOutput(v string) string {
	out := strings.ToLower(strings.ReplaceAll(v, " ", ""))
	switch out {
	case "stderr", "file", "stderr,file", "file,stderr":
		return out
	default:
		return defaultOutput
	}
}

func parseLevel(v string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func getenv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func getenvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
