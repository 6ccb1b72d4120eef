package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds process-wide settings for the engine and its adapters.
type Config struct {
	DBPath             string
	RulesFile          string
	AnalyzerTimeoutMs  int
	SourceTimeoutMs    int
	GeneratorTimeoutMs int
	EventTimeoutMs     int
	HistoryLimit       int
	DefaultMaxItems    int
	HTTPAddr           string
	LogFormat          string // text or json
	LogLevel           slog.Level
}

// Default returns a Config with sensible defaults. DBPath is empty until
// Load resolves it against the home directory.
func Default() Config {
	return Config{
		AnalyzerTimeoutMs:  300,
		SourceTimeoutMs:    500,
		GeneratorTimeoutMs: 500,
		EventTimeoutMs:     2000,
		HistoryLimit:       10,
		DefaultMaxItems:    5,
		HTTPAddr:           ":8080",
		LogFormat:          "text",
		LogLevel:           slog.LevelInfo,
	}
}

// Load reads configuration from environment variables, falling back to
// defaults for any unset or invalid values.
func Load() Config {
	cfg := Default()

	if v := os.Getenv("HAVEN_DB"); v != "" {
		cfg.DBPath = v
	} else if home, err := os.UserHomeDir(); err == nil {
		cfg.DBPath = filepath.Join(home, ".haven", "haven.db")
	} else {
		cfg.DBPath = filepath.Join(".haven", "haven.db")
	}
	if v := os.Getenv("HAVEN_RULES_FILE"); v != "" {
		cfg.RulesFile = v
	}
	if v := os.Getenv("HAVEN_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}

	applyPositiveInt(&cfg.AnalyzerTimeoutMs, "HAVEN_ANALYZER_TIMEOUT_MS")
	applyPositiveInt(&cfg.SourceTimeoutMs, "HAVEN_SOURCE_TIMEOUT_MS")
	applyPositiveInt(&cfg.GeneratorTimeoutMs, "HAVEN_GENERATOR_TIMEOUT_MS")
	applyPositiveInt(&cfg.EventTimeoutMs, "HAVEN_EVENT_TIMEOUT_MS")
	applyPositiveInt(&cfg.HistoryLimit, "HAVEN_HISTORY_LIMIT")
	applyPositiveInt(&cfg.DefaultMaxItems, "HAVEN_DEFAULT_MAX_ITEMS")

	if v := strings.ToLower(os.Getenv("HAVEN_LOG_FORMAT")); v == "text" || v == "json" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("HAVEN_LOG_LEVEL"); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			cfg.LogLevel = lvl
		}
	}

	return cfg
}

func applyPositiveInt(dst *int, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	*dst = n
}

func (c Config) AnalyzerTimeout() time.Duration  { return ms(c.AnalyzerTimeoutMs) }
func (c Config) SourceTimeout() time.Duration    { return ms(c.SourceTimeoutMs) }
func (c Config) GeneratorTimeout() time.Duration { return ms(c.GeneratorTimeoutMs) }
func (c Config) EventTimeout() time.Duration     { return ms(c.EventTimeoutMs) }

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// NewLogger builds the process logger in the configured format and level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
