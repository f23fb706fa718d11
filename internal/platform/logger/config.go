package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config selects level, encoding and destination of a Logger. Values come
// from internal/config; this package does not read the environment.
type Config struct {
	Level      string
	Format     string
	OutputFile string // "stdout", "stderr" or a file path
}

func DefaultConfig() *Config {
	return &Config{Level: "info", Format: FormatJSON, OutputFile: "stdout"}
}

// Validate rejects an unknown level or format. NewLogger itself falls back
// to info and json, so callers decide whether a bad value is fatal.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Level); err != nil {
		return fmt.Errorf("invalid log level %q", c.Level)
	}
	switch strings.ToLower(strings.TrimSpace(c.Format)) {
	case "", FormatJSON, FormatConsole, "text":
		return nil
	default:
		return fmt.Errorf("invalid log format %q", c.Format)
	}
}

// ZapLevel is Level as a zap level, info when unset or unknown.
func (c *Config) ZapLevel() zapcore.Level {
	lvl, err := parseLevel(c.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func (c *Config) console() bool {
	f := strings.ToLower(strings.TrimSpace(c.Format))
	return f == FormatConsole || f == "text"
}

func parseLevel(s string) (zapcore.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	return zapcore.ParseLevel(s)
}
