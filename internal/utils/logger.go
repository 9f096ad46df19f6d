// internal/utils/logger.go
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"display-service/internal/config"
)

// NewLogger builds the process logger from configuration. Output is
// stdout, stderr or a rotated log file.
func NewLogger(cfg *config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil || level < zapcore.DebugLevel || level > zapcore.FatalLevel {
		return nil, fmt.Errorf("failed to create logger: invalid log level: %q", cfg.Level)
	}

	sink, err := logSink(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig(true))
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig(false))
	}

	return zap.New(zapcore.NewCore(encoder, sink, level),
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	), nil
}

func encoderConfig(console bool) zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "timestamp"
	ec.MessageKey = "message"
	ec.EncodeCaller = zapcore.ShortCallerEncoder
	if console {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
		return ec
	}
	ec.EncodeLevel = zapcore.LowercaseLevelEncoder
	ec.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	return ec
}

// logSink opens the configured output. Display sessions log every command
// exchange at debug level, so file output is always rotated.
func logSink(cfg *config.LoggingConfig) (zapcore.WriteSyncer, error) {
	switch cfg.Output {
	case "stdout":
		return zapcore.AddSync(os.Stdout), nil
	case "stderr":
		return zapcore.AddSync(os.Stderr), nil
	}

	path := cfg.Output
	if path == "" {
		path = "./logs/display-service.log"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSize, // MB
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge, // days
		Compress:   cfg.Compress,
	}), nil
}

// DisplayLogger wraps zap.Logger with display-specific fields
type DisplayLogger struct {
	*zap.Logger
	port      string
	vendorKey string
	displayID int
}

// NewDisplayLogger creates a logger bound to one display on one port
func NewDisplayLogger(baseLogger *zap.Logger, port, vendorKey string, displayID int) *DisplayLogger {
	if baseLogger == nil {
		baseLogger = zap.NewNop()
	}
	logger := baseLogger.With(
		zap.String("port", port),
		zap.String("vendor", vendorKey),
		zap.Int("display_id", displayID),
		zap.String("component", "display"),
	)

	return &DisplayLogger{
		Logger:    logger,
		port:      port,
		vendorKey: vendorKey,
		displayID: displayID,
	}
}

// LogCommand logs one command exchange. A nack is not an error and is
// logged at debug level.
func (dl *DisplayLogger) LogCommand(command string, duration time.Duration, ack bool, err error) {
	fields := []zap.Field{
		zap.String("command", command),
		zap.Duration("duration", duration),
		zap.Bool("ack", ack),
	}

	switch {
	case err != nil:
		fields = append(fields, zap.Error(err))
		dl.Warn("Display command failed", fields...)
	default:
		dl.Debug("Display command completed", fields...)
	}
}

// ScanLogger follows one discovery scan. Every entry carries the scan id
// that is also published on the scan events, so log lines and WebSocket
// notifications of the same scan can be matched up.
type ScanLogger struct {
	*zap.Logger
	targets   int
	scanned   int
	startTime time.Time
}

// NewScanLogger creates the logger for one scan. targets is the number of
// vendor targets the scan covers.
func NewScanLogger(baseLogger *zap.Logger, scanID, vendor string, targets int) *ScanLogger {
	if baseLogger == nil {
		baseLogger = zap.NewNop()
	}
	return &ScanLogger{
		Logger: baseLogger.With(
			zap.String("scan_id", scanID),
			zap.String("vendor", vendor),
			zap.String("component", "discovery"),
		),
		targets:   targets,
		startTime: time.Now(),
	}
}

// Start logs the scan plan
func (sl *ScanLogger) Start(ports int) {
	sl.Info("Scan started", zap.Int("ports", ports), zap.Int("targets", sl.targets))
}

// TargetScanned logs that every port was probed for one vendor target
func (sl *ScanLogger) TargetScanned(vendorKey string, displaysFound int) {
	sl.scanned++
	progress := 1.0
	if sl.targets > 0 {
		progress = float64(sl.scanned) / float64(sl.targets)
	}
	sl.Info("Target scanned",
		zap.String("target", vendorKey),
		zap.Int("displays_found", displaysFound),
		zap.Float64("progress", progress),
		zap.Duration("elapsed", time.Since(sl.startTime)),
	)
}

// Finished logs the end of the scan. err is nil on success; a scan that
// stops early still reports the displays found before it stopped.
func (sl *ScanLogger) Finished(displaysFound int, err error) {
	fields := []zap.Field{
		zap.Int("displays_found", displaysFound),
		zap.Duration("duration", time.Since(sl.startTime)),
	}
	if err != nil {
		sl.Error("Scan stopped", append(fields, zap.Error(err))...)
		return
	}
	sl.Info("Scan finished", fields...)
}

// ServiceLogger tags entries with the component that wrote them
type ServiceLogger struct {
	*zap.Logger
	serviceName string
}

// NewServiceLogger creates a service-specific logger
func NewServiceLogger(baseLogger *zap.Logger, serviceName string) *ServiceLogger {
	if baseLogger == nil {
		baseLogger = zap.NewNop()
	}
	return &ServiceLogger{
		Logger:      baseLogger.With(zap.String("service", serviceName), zap.String("component", "service")),
		serviceName: serviceName,
	}
}

// LogServiceStart logs the version and the display setup the process
// will drive: the serial line settings and the vendors discovery probes.
func (sl *ServiceLogger) LogServiceStart(version string, cfg *config.Config) {
	vendors := make([]string, 0, len(cfg.Discovery.Vendors))
	for key, v := range cfg.Discovery.Vendors {
		if v.Enabled {
			vendors = append(vendors, fmt.Sprintf("%s[%d-%d]", key, v.MinID, v.MaxID))
		}
	}
	sort.Strings(vendors)

	sl.Info("Service starting",
		zap.String("version", version),
		zap.String("environment", cfg.App.Environment),
		zap.Int("baud_rate", cfg.Serial.BaudRate),
		zap.String("parity", cfg.Serial.Parity),
		zap.Strings("discovery_vendors", vendors),
		zap.Strings("discovery_ports", cfg.Discovery.Ports),
	)
}

// LogServiceStop logs service shutdown
func (sl *ServiceLogger) LogServiceStop(reason string) {
	sl.Info("Service stopping", zap.String("reason", reason))
}

// LogAPIRequest logs one served HTTP request. fields carry the display
// the request addressed, if any.
func (sl *ServiceLogger) LogAPIRequest(method, path, clientIP string, statusCode int, duration time.Duration, fields ...zap.Field) {
	level := zapcore.InfoLevel
	switch {
	case statusCode >= 500:
		level = zapcore.ErrorLevel
	case statusCode >= 400:
		level = zapcore.WarnLevel
	}

	if ce := sl.Check(level, "API request"); ce != nil {
		ce.Write(append([]zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.String("client_ip", clientIP),
			zap.Int("status_code", statusCode),
			zap.Duration("duration", duration),
		}, fields...)...)
	}
}

// Helper functions for common logging patterns

// LoggerWithRequestID adds request ID to logger
func LoggerWithRequestID(logger *zap.Logger, requestID string) *zap.Logger {
	return logger.With(zap.String("request_id", requestID))
}

// LogError is a helper function for consistent error logging
func LogError(logger *zap.Logger, message string, err error, fields ...zap.Field) {
	allFields := append([]zap.Field{zap.Error(err)}, fields...)
	logger.Error(message, allFields...)
}

// LogPanic logs and recovers from panics
func LogPanic(logger *zap.Logger) {
	if r := recover(); r != nil {
		logger.Fatal("Application panic",
			zap.Any("panic", r),
			zap.Stack("stacktrace"),
		)
	}
}

// CloseLogger flushes buffered log entries
func CloseLogger(logger *zap.Logger) error {
	return logger.Sync()
}
