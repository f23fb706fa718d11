package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfig_ZapLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		" error ": zapcore.ErrorLevel,
		"panic":   zapcore.PanicLevel,
		"":        zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		cfg := &Config{Level: in}
		assert.Equal(t, want, cfg.ZapLevel(), in)
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, (&Config{Level: "Warning", Format: "Console"}).Validate())
	assert.ErrorContains(t, (&Config{Level: "loud"}).Validate(), `invalid log level "loud"`)
	assert.ErrorContains(t, (&Config{Level: "info", Format: "xml"}).Validate(), `invalid log format "xml"`)
}

func TestLogger_NamedAndWith(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := New(zap.New(core))

	l.Named("AdUsecase").With(zap.String("ad_id", "a1")).Info("created")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "AdUsecase", entries[0].LoggerName)
		assert.Equal(t, "a1", entries[0].ContextMap()["ad_id"])
	}
}

func TestNewLogger_DefaultsToStdout(t *testing.T) {
	l := NewLogger(&Config{Level: "info", Format: FormatJSON})
	assert.NotNil(t, l.Logger)
}
