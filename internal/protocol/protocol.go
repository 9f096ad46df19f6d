// internal/protocol/protocol.go
package protocol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Transport opens a byte channel to one physical port
type Transport interface {
	Open(config SerialConfig) (Port, error)
}

// Port is an open byte channel. Read must return 0 bytes and a nil error
// when nothing arrives within the configured read timeout.
type Port interface {
	io.ReadWriteCloser
}

// ErrHandshakeFailed is returned when the configured handshake did not
// complete; the command payload is not sent in that case.
var ErrHandshakeFailed = errors.New("handshake failed")

// Transport operations reported by TransportError
const (
	OpOpen  = "open"
	OpWrite = "write"
	OpRead  = "read"
)

// TransportError wraps a fault raised by the underlying port
type TransportError struct {
	Op   string
	Port string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s %s: %v", e.Op, e.Port, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsOpenError reports whether err is a failure to open the port at all
func IsOpenError(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Op == OpOpen
}

// BusStats provides bus-level statistics
type BusStats struct {
	Port           string        `json:"port"`
	BytesWritten   int64         `json:"bytes_written"`
	BytesRead      int64         `json:"bytes_read"`
	ExchangeCount  int64         `json:"exchange_count"`
	ErrorCount     int64         `json:"error_count"`
	LastActivity   time.Time     `json:"last_activity"`
	AverageLatency time.Duration `json:"average_latency"`
}

// Runner is what display drivers need from a connection
type Runner interface {
	RunCommand(ctx context.Context, payload []byte, withHandshake bool) ([]byte, error)
	PortName() string
}
