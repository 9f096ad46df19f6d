package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"display-service/internal/config"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(&config.LoggingConfig{Level: "debug", Format: "console", Output: "stderr"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = NewLogger(&config.LoggingConfig{Level: "chatty", Output: "stdout"})
	assert.Error(t, err)
}

func TestNewLoggerRotatesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "display.log")
	logger, err := NewLogger(&config.LoggingConfig{Level: "info", Format: "json", Output: path, MaxSize: 1})
	require.NoError(t, err)

	logger.Info("hello")
	require.NoError(t, logger.Sync())
	assert.FileExists(t, path)
}

func TestDisplayLoggerLogCommand(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	dl := NewDisplayLogger(zap.New(core), "COM3", "samsung_mdc", 2)

	dl.LogCommand("power_get", time.Millisecond, true, nil)
	dl.LogCommand("power_get", time.Millisecond, false, errors.New("open failed"))

	require.Equal(t, 2, logs.Len())
	first := logs.All()[0]
	assert.Equal(t, zap.DebugLevel, first.Level)
	assert.Equal(t, "COM3", first.ContextMap()["port"])
	assert.Equal(t, int64(2), first.ContextMap()["display_id"])
	assert.Equal(t, zap.WarnLevel, logs.All()[1].Level)

	assert.NotPanics(t, func() {
		NewDisplayLogger(nil, "COM1", "benq_generic", 1).LogCommand("x", 0, false, nil)
	})
}

func TestErrorResponseCarriesCodeAndRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		status int
		code   string
	}{
		{http.StatusNotImplemented, "NOT_IMPLEMENTED"},
		{http.StatusBadGateway, "TRANSPORT_ERROR"},
		{http.StatusGatewayTimeout, "DISPLAY_TIMEOUT"},
		{http.StatusConflict, "CONFLICT"},
		{http.StatusTeapot, "UNKNOWN_ERROR"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("request_id", "req-1")

		ErrorResponse(c, tt.status, "failed", errors.New("cause"))

		var resp APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, tt.status, w.Code)
		assert.False(t, resp.Success)
		assert.Equal(t, tt.code, resp.Error.Code)
		assert.Equal(t, "cause", resp.Error.Details)
		assert.Equal(t, "req-1", resp.RequestID)
	}
}

func TestScanLoggerTagsEveryEntryWithScanID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sl := NewScanLogger(zap.New(core), "scan-7", "all", 2)

	sl.Start(3)
	sl.TargetScanned("samsung_mdc", 1)
	sl.TargetScanned("benq_generic", 0)
	sl.Finished(1, nil)

	require.Equal(t, 4, logs.Len())
	for _, entry := range logs.All() {
		assert.Equal(t, "scan-7", entry.ContextMap()["scan_id"])
		assert.Equal(t, "all", entry.ContextMap()["vendor"])
	}
	assert.Equal(t, int64(3), logs.All()[0].ContextMap()["ports"])
	assert.Equal(t, 0.5, logs.All()[1].ContextMap()["progress"])
	assert.Equal(t, "benq_generic", logs.All()[2].ContextMap()["target"])
	assert.Equal(t, 1.0, logs.All()[2].ContextMap()["progress"])
	assert.Equal(t, "Scan finished", logs.All()[3].Message)
}

func TestScanLoggerReportsStoppedScan(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	NewScanLogger(zap.New(core), "scan-8", "philips_sicp186", 1).Finished(2, context.Canceled)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.ErrorLevel, entry.Level)
	assert.Equal(t, int64(2), entry.ContextMap()["displays_found"])
	assert.Equal(t, context.Canceled.Error(), entry.ContextMap()["error"])
}

func TestLogServiceStartListsDiscoveryVendors(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	cfg := &config.Config{
		App:    config.AppConfig{Environment: "test"},
		Serial: config.SerialConfig{BaudRate: 9600, Parity: "none"},
		Discovery: config.DiscoveryConfig{Vendors: map[string]config.VendorDiscoveryConfig{
			"samsung_mdc":  {Enabled: true, MinID: 0, MaxID: 4},
			"benq_generic": {Enabled: true, MinID: 1, MaxID: 1},
			"philips_sicp": {Enabled: false, MinID: 1, MaxID: 9},
		}},
	}

	NewServiceLogger(zap.New(core), "display-service").LogServiceStart("1.2.0", cfg)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "1.2.0", fields["version"])
	assert.Equal(t, int64(9600), fields["baud_rate"])
	assert.Equal(t, []interface{}{"benq_generic[1-1]", "samsung_mdc[0-4]"}, fields["discovery_vendors"])
}
