package app

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Abdurahmanit/skip2love/internal/config"
	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestCore_CloseRunsInReverseOrder(t *testing.T) {
	core := &Core{log: logger.NewNop()}
	var order []string
	core.addCloser("first", func(context.Context) error {
		order = append(order, "first")
		return nil
	})
	core.addCloser("second", func(context.Context) error {
		order = append(order, "second")
		return errors.New("boom")
	})

	err := core.Close(context.Background())
	assert.ErrorContains(t, err, "second: boom")
	assert.Equal(t, []string{"second", "first"}, order)

	require.NoError(t, core.Close(context.Background()))
	assert.Len(t, order, 2)
}

func TestNewCore_UnknownDriver(t *testing.T) {
	_, err := NewCore(context.Background(), &config.Config{StoreDriver: "oracle"}, nil, logger.NewNop())
	assert.ErrorContains(t, err, `unknown store driver "oracle"`)
}

func TestNewHTTPServer(t *testing.T) {
	srv := newHTTPServer(":8080", http.NotFoundHandler())
	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, 5*time.Second, srv.ReadHeaderTimeout)
}

func TestNewLogger_UsesConfig(t *testing.T) {
	log := NewLogger(&config.Config{LogLevel: "debug", LogFormat: "console"})
	require.NotNil(t, log)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}
