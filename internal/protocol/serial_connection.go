// internal/protocol/serial_connection.go
package protocol

import (
	"fmt"
	"strings"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

// SerialTransport implements Transport on top of go.bug.st/serial
type SerialTransport struct {
	logger *zap.Logger
}

// NewSerialTransport creates a new serial transport
func NewSerialTransport(logger *zap.Logger) *SerialTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SerialTransport{logger: logger.With(zap.String("protocol", "serial"))}
}

// Open opens the serial port described by config
func (t *SerialTransport) Open(config SerialConfig) (Port, error) {
	mode, err := serialMode(config)
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(config.Port, mode)
	if err != nil {
		t.logger.Debug("Failed to open serial port",
			zap.String("port", config.Port),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}

	if err := port.SetReadTimeout(config.ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	return port, nil
}

func serialMode(config SerialConfig) (*serial.Mode, error) {
	mode := &serial.Mode{
		BaudRate: config.BaudRate,
		DataBits: config.DataBits,
	}

	switch config.StopBits {
	case 0, 1:
		mode.StopBits = serial.OneStopBit
	case 2:
		mode.StopBits = serial.TwoStopBits
	default:
		return nil, fmt.Errorf("unsupported stop bits: %d", config.StopBits)
	}

	switch strings.ToLower(config.Parity) {
	case "", "none", "n":
		mode.Parity = serial.NoParity
	case "odd", "o":
		mode.Parity = serial.OddParity
	case "even", "e":
		mode.Parity = serial.EvenParity
	case "mark", "m":
		mode.Parity = serial.MarkParity
	case "space", "s":
		mode.Parity = serial.SpaceParity
	default:
		return nil, fmt.Errorf("unsupported parity: %s", config.Parity)
	}

	return mode, nil
}
